package summaries

import (
	"errors"
	"net/http"
)

// Domain errors for summary operations.
var (
	ErrNotFound      = errors.New("summary not found")
	ErrNoContent     = errors.New("document has no extracted content")
	ErrBatchTooLarge = errors.New("batch exceeds the maximum document count")
)

// tooShortSummary is stored verbatim when the source text is below the
// minimum length; no model call is made.
const tooShortSummary = "Document content is too short to summarize."

// MapHTTPStatus maps summary domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrNoContent) || errors.Is(err, ErrBatchTooLarge) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
