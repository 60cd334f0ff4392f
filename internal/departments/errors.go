package departments

import (
	"errors"
	"net/http"
)

// Domain errors for department operations.
var (
	ErrNotFound  = errors.New("department not found")
	ErrDuplicate = errors.New("department already exists")
)

// MapHTTPStatus maps department domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
