package classify

import (
	"errors"
	"net/http"
)

// Domain errors for classification operations.
var (
	ErrExtractionUnavailable = errors.New("entity extraction unavailable")
	ErrInvariant             = errors.New("scoring invariant violated")
	ErrInvalidCatalog        = errors.New("invalid rule catalog")
	ErrEmptyText             = errors.New("text is required")
)

// MapHTTPStatus maps classification domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyText) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidCatalog) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrExtractionUnavailable) {
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
