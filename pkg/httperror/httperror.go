// Package httperror carries the status, machine code and rendering hints of
// an error returned by an HTTP handler.
package httperror

import (
	"fmt"
	"net/http"
)

type Error struct {
	Status  int
	Code    string
	Message string

	// Body replaces the default {"error": Message} JSON payload when set.
	Body any
	// Text renders Message as text/plain.
	Text bool

	cause error
}

func New(status int, code, message string, body any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Body:    body,
	}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error for logging.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

func (e *Error) AsText() *Error {
	e.Text = true
	return e
}

func BadRequest(code, message string, body any) *Error {
	return New(http.StatusBadRequest, code, message, body)
}

func Unauthorized(code, message string, body any) *Error {
	return New(http.StatusUnauthorized, code, message, body)
}

func NotFound(code, message string, body any) *Error {
	return New(http.StatusNotFound, code, message, body)
}

func Conflict(code, message string, body any) *Error {
	return New(http.StatusConflict, code, message, body)
}

func UnprocessableEntity(code, message string, body any) *Error {
	return New(http.StatusUnprocessableEntity, code, message, body)
}

func InternalServerError(code, message string, body any) *Error {
	return New(http.StatusInternalServerError, code, message, body)
}
