package translation

import (
	"errors"
	"net/http"
)

// Domain errors for translation operations.
var (
	ErrEmptyText        = errors.New("text is required")
	ErrTextTooLarge     = errors.New("text exceeds the translation size limit")
	ErrInvalidDirection = errors.New("direction must be en2ml or ml2en")
	ErrPlaceholderLost  = errors.New("translation dropped a link placeholder")
)

// MapHTTPStatus maps translation domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrEmptyText) || errors.Is(err, ErrInvalidDirection) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrTextTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrPlaceholderLost) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
