// Package apperrors defines the typed application errors every business
// operation returns. Each error carries the HTTP-equivalent status code so
// handlers can serialize a uniform error envelope without inspecting
// lower-layer errors.
package apperrors

import (
	"errors"
	"net/http"
)

// Error is a business-rule failure with an HTTP-equivalent status code.
type Error struct {
	Status  int    // HTTP status code
	Message string // Client-facing message
}

func (e *Error) Error() string {
	return e.Message
}

// New creates a typed application error.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

var (
	// ErrValidation covers missing or empty required fields.
	ErrValidation = New(http.StatusBadRequest, "all fields are required")
	// ErrDuplicateUser is returned when username or email is already taken.
	ErrDuplicateUser = New(http.StatusConflict, "user with this email or username already exists")
	// ErrInvalidCredentials covers unknown identifier and password mismatch alike.
	ErrInvalidCredentials = New(http.StatusUnauthorized, "invalid credentials")
	// ErrMissingToken is returned when no refresh token accompanies the request.
	ErrMissingToken = New(http.StatusUnauthorized, "refresh token is missing")
	// ErrInvalidToken covers bad signature, malformed token, expiry, unknown
	// subject, and stored-token mismatch.
	ErrInvalidToken = New(http.StatusUnauthorized, "invalid or expired token")
	// ErrNotFound is returned for lookups of nonexistent resources.
	ErrNotFound = New(http.StatusNotFound, "resource not found")
	// ErrUpstream wraps storage and media-provider failures.
	ErrUpstream = New(http.StatusInternalServerError, "internal server error")
)

// StatusOf extracts the HTTP status from err. Any error outside the taxonomy
// is treated as an upstream failure.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Non-typed errors never
// leak internal detail.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ErrUpstream.Message
}
