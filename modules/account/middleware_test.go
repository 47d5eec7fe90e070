package account_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/modules/account"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
)

type failingAuthenticator struct{ err error }

func (a failingAuthenticator) Authenticate(context.Context, string) (*auth.Identity, error) {
	return nil, a.err
}

func TestNewMiddlewareErrorHandler(t *testing.T) {
	t.Parallel()

	run := func(t *testing.T, err error) (int, envelope, string) {
		t.Helper()
		var logs bytes.Buffer
		log := logger.New(logger.WithOutput(&logs), logger.WithJSONFormatter(), logger.WithLevel(slog.LevelDebug))
		eh := handler.NewErrorHandler(log, handler.ErrorHandlerConfig{})

		mw := auth.Middleware(failingAuthenticator{err: err},
			auth.WithMiddlewareErrorHandler(account.NewMiddlewareErrorHandler(eh)))
		h := mw(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		rec := do(h, http.MethodGet, "/me", "", "Authorization", "Bearer some-token")
		return rec.Code, decode(t, rec), logs.String()
	}

	t.Run("internal failure is logged with its cause", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("mongo: connection refused")
		code, body, logs := run(t, &auth.Error{Kind: auth.KindInternal, Message: auth.ErrInternal.Message, Err: cause})

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.False(t, body.Success)
		assert.NotContains(t, body.Message, "mongo")
		assert.Contains(t, logs, "mongo: connection refused")
		assert.Contains(t, logs, `"level":"ERROR"`)
	})

	t.Run("rejected token is a logged 401", func(t *testing.T) {
		t.Parallel()
		code, body, logs := run(t, auth.ErrTokenInvalid)

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, auth.ErrTokenInvalid.Message, body.Message)
		assert.Contains(t, logs, `"level":"WARN"`)
	})
}
