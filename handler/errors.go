package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and a client-facing message.
// Err keeps the underlying cause for logs; it is never rendered.
type HTTPError struct {
	Code    int
	Message string
	Data    any
	Err     error
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }

// Wrap returns a copy carrying cause.
func (e HTTPError) Wrap(cause error) HTTPError {
	e.Err = cause
	return e
}

// WithData returns a copy rendering data in the envelope.
func (e HTTPError) WithData(data any) HTTPError {
	e.Data = data
	return e
}

func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest           = HTTPError{Code: http.StatusBadRequest, Message: "Bad Request"}
	ErrUnauthorized         = HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden            = HTTPError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrNotFound             = HTTPError{Code: http.StatusNotFound, Message: "Not Found"}
	ErrMethodNotAllowed     = HTTPError{Code: http.StatusMethodNotAllowed, Message: "Method Not Allowed"}
	ErrConflict             = HTTPError{Code: http.StatusConflict, Message: "Conflict"}
	ErrEntityTooLarge       = HTTPError{Code: http.StatusRequestEntityTooLarge, Message: "Request body too large"}
	ErrUnsupportedMediaType = HTTPError{Code: http.StatusUnsupportedMediaType, Message: "Unsupported Media Type"}
	ErrTooManyRequests      = HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests, please try again later"}
	ErrInternalServerError  = HTTPError{Code: http.StatusInternalServerError, Message: "Internal Server Error"}
	ErrServiceUnavailable   = HTTPError{Code: http.StatusServiceUnavailable, Message: "Service Unavailable"}
)
