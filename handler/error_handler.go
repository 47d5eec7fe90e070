package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/tmplstore/pkg/binder"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
	"github.com/dmitrymomot/tmplstore/pkg/validator"
)

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// Development adds the error text as detail on 5xx responses.
	Development bool
}

// ErrorInfo is the classified form of an error.
type ErrorInfo struct {
	StatusCode int
	Message    string
	Data       any
	LogLevel   slog.Level
}

func classifyError(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    ErrInternalServerError.Message,
	}

	var httpErr HTTPError
	var validationErr validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
		info.Data = httpErr.Data
	case errors.As(err, &validationErr):
		info.StatusCode = http.StatusBadRequest
		info.Message = validationErr.First()
		info.Data = map[string]any{"errors": []validator.ValidationError(validationErr)}
	case errors.Is(err, binder.ErrBodyTooLarge):
		info.StatusCode = ErrEntityTooLarge.Code
		info.Message = ErrEntityTooLarge.Message
	case errors.Is(err, binder.ErrUnsupportedMediaType):
		info.StatusCode = ErrUnsupportedMediaType.Code
		info.Message = ErrUnsupportedMediaType.Message
	case errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrEmptyBody),
		errors.Is(err, binder.ErrFailedToParseJSON),
		errors.Is(err, binder.ErrInvalidQuery),
		errors.Is(err, binder.ErrInvalidPath):
		info.StatusCode = http.StatusBadRequest
		info.Message = "Invalid request payload"
	}

	info.LogLevel = slog.LevelError
	if info.StatusCode < http.StatusInternalServerError {
		info.LogLevel = slog.LevelWarn
	}
	return info
}

// NewErrorHandler renders failure envelopes and logs the underlying error.
// 4xx are logged at warn, everything else at error.
func NewErrorHandler(log *slog.Logger, cfg ErrorHandlerConfig) ErrorHandler[Context] {
	if log == nil {
		log = logger.Discard()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		info := classifyError(err)

		log.LogAttrs(r.Context(), info.LogLevel, "request error",
			logger.Error(err),
			slog.Int("status", info.StatusCode),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		body := Envelope{Message: info.Message, Data: info.Data}
		if cfg.Development && info.StatusCode >= http.StatusInternalServerError {
			body.Detail = err.Error()
		}

		if werr := WriteJSON(ctx.ResponseWriter(), info.StatusCode, body); werr != nil {
			log.ErrorContext(r.Context(), "failed to write error response",
				logger.Error(werr), logger.Component("error_handler"))
		}
	}
}
