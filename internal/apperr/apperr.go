// Package apperr holds the error kinds shared by the service layer and the
// HTTP boundary.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrDuplicate    = errors.New("already exists")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Status maps an error to the HTTP status code its kind translates to.
// Unknown errors are 500.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns err's text without the trailing ": <kind>" added when the
// kind was wrapped, for use in client-facing error bodies.
func Message(err error) string {
	msg := err.Error()
	for _, kind := range []error{ErrValidation, ErrDuplicate, ErrNotFound, ErrUnauthorized} {
		if errors.Is(err, kind) {
			if trimmed := strings.TrimSuffix(msg, ": "+kind.Error()); trimmed != "" {
				return trimmed
			}
		}
	}
	return msg
}
