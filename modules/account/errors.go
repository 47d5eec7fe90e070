package account

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

// MapError converts auth errors to HTTP errors. Foreign errors become a
// generic 500. The original error stays reachable through Unwrap for logs.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var ae *auth.Error
	if !errors.As(err, &ae) {
		return handler.ErrInternalServerError.Wrap(err)
	}

	var code int
	switch ae.Kind {
	case auth.KindValidation:
		code = http.StatusBadRequest
	case auth.KindUnauthenticated:
		code = http.StatusUnauthorized
	case auth.KindForbidden:
		code = http.StatusForbidden
	case auth.KindNotFound:
		code = http.StatusNotFound
	case auth.KindConflict:
		code = http.StatusConflict
	case auth.KindInternal:
		return handler.ErrInternalServerError.Wrap(err)
	default:
		return handler.ErrInternalServerError.Wrap(err)
	}
	return handler.NewHTTPError(code, ae.Message).Wrap(err)
}

// NewMiddlewareErrorHandler renders auth middleware failures through
// errorHandler, so they get the JSON envelope and are logged like handler
// errors.
func NewMiddlewareErrorHandler(errorHandler handler.ErrorHandler[handler.Context]) auth.MiddlewareErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		errorHandler(handler.NewContext(w, r), MapError(err))
	}
}
