package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/dmitrymomot/tmplstore/pkg/logger"
)

// NotFound renders the 404 envelope for unmatched routes.
func NotFound() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusNotFound, Envelope{
			Message: fmt.Sprintf("Route %s not found", r.URL.RequestURI()),
		})
	}
}

// MethodNotAllowed renders the 405 envelope.
func MethodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = WriteJSON(w, http.StatusMethodNotAllowed, Envelope{
			Message: fmt.Sprintf("Method %s not allowed on %s", r.Method, r.URL.Path),
		})
	}
}

// Recoverer turns panics into a 500 envelope and logs the stack.
// http.ErrAbortHandler is re-panicked so net/http can abort the response.
func Recoverer(log *slog.Logger, development bool) func(http.Handler) http.Handler {
	if log == nil {
		log = logger.Discard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.ErrorContext(r.Context(), "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				)

				body := Envelope{Message: ErrInternalServerError.Message}
				if development {
					body.Detail = fmt.Sprint(rec)
				}
				_ = WriteJSON(w, http.StatusInternalServerError, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
