package auth

import (
	"errors"
	"net/http"
)

// Domain errors for auth operations.
var (
	ErrNotFound            = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidRegistration = errors.New("email, name, and password are required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUnauthorized        = errors.New("authentication required")
)

// MapHTTPStatus maps auth domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrEmailTaken) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRegistration) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
