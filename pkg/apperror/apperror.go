package apperror

import (
	"fmt"
	"net/http"
)

// Error is the typed application error every handler returns.
// Status maps directly to the HTTP status the central formatter renders.
type Error struct {
	Status  int
	Message string
	Details interface{} // optional field-level details, e.g. validation output
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Validation reports a 400 with per-field details.
func Validation(details interface{}) *Error {
	return &Error{Status: http.StatusBadRequest, Message: "invalid payload", Details: details}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Upstream wraps a failure from an external service (database excluded).
func Upstream(message string, err error) *Error {
	return &Error{Status: http.StatusBadGateway, Message: message, Err: err}
}

func Internal(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message, Err: err}
}
