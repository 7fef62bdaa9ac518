package domain

import (
	"errors"
	"net/http"
)

// Error is a business-rule outcome carrying the message and HTTP status the
// transport layer should surface. Persistence failures are returned as plain
// errors and are not wrapped in this type.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationError(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

func unauthorizedError(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// StatusOf maps err to an HTTP status, defaulting to 500 for unexpected errors.
func StatusOf(err error) int {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Status
	}
	return http.StatusInternalServerError
}
