package httpserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/tmplstore/pkg/logger"
)

// Check is a named readiness probe for a dependency.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

type healthResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Timestamp string            `json:"timestamp"`
	Data      map[string]string `json:"data,omitempty"`
}

// HealthCheckHandler serves liveness when no checks are given and
// readiness otherwise. Every check runs; the response is 503 if any fails,
// with per-dependency status under data.
func HealthCheckHandler(log *slog.Logger, message string, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Success:   true,
			Message:   message,
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		}
		status := http.StatusOK

		if len(checks) > 0 {
			resp.Data = make(map[string]string, len(checks))
			for _, c := range checks {
				if err := c.Fn(r.Context()); err != nil {
					log.ErrorContext(r.Context(), "readiness check failed",
						slog.String("check", c.Name), logger.Error(err))
					resp.Data[c.Name] = "unavailable"
					resp.Success = false
					continue
				}
				resp.Data[c.Name] = "ok"
			}
		}

		if !resp.Success {
			status = http.StatusServiceUnavailable
			resp.Message = "Service is not ready"
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
