package ask

import (
	"errors"
	"net/http"
)

// Domain errors for question answering.
var (
	ErrQuestionTooShort = errors.New("question is too short")
	ErrQuestionTooLong  = errors.New("question is too long")
)

// MapHTTPStatus maps ask domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrQuestionTooShort) || errors.Is(err, ErrQuestionTooLong) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
