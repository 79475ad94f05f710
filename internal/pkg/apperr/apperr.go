// Package apperr defines the typed error that handlers and services return when
// they know exactly which HTTP status a failure should produce.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failure with a known status code. Operational errors are expected
// outcomes of bad input or missing data; non-operational ones are bugs or
// infrastructure faults and are logged as such.
type Error struct {
	StatusCode  int
	Message     string
	Details     []string
	Operational bool
	Cause       error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an operational error. An empty message falls back to the status text.
func New(status int, msg string, details ...string) *Error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	if details == nil {
		details = []string{}
	}
	return &Error{
		StatusCode:  status,
		Message:     msg,
		Details:     details,
		Operational: status < http.StatusInternalServerError,
	}
}

// Wrap is New with a cause attached.
func Wrap(status int, msg string, cause error) *Error {
	e := New(status, msg)
	e.Cause = cause
	return e
}

func BadRequest(msg string, details ...string) *Error {
	return New(http.StatusBadRequest, msg, details...)
}

func Unauthorized(msg string) *Error { return New(http.StatusUnauthorized, msg) }

func Forbidden(msg string) *Error { return New(http.StatusForbidden, msg) }

func NotFound(msg string) *Error { return New(http.StatusNotFound, msg) }

func Conflict(msg string) *Error { return New(http.StatusConflict, msg) }

// Internal marks an unexpected fault. The cause is kept for logs only.
func Internal(cause error) *Error {
	return Wrap(http.StatusInternalServerError, "Internal Server Error", cause)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
