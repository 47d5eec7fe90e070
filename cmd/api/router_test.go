package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/httpserver"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

type emptyDirectory struct{}

func (emptyDirectory) Create(context.Context, *auth.Identity) error { return errors.New("read only") }
func (emptyDirectory) FindByID(context.Context, string) (*auth.Identity, error) {
	return nil, auth.ErrIdentityNotFound
}
func (emptyDirectory) FindByEmail(context.Context, string) (*auth.Identity, error) {
	return nil, auth.ErrIdentityNotFound
}
func (emptyDirectory) FindByExternalID(context.Context, string) (*auth.Identity, error) {
	return nil, auth.ErrIdentityNotFound
}
func (emptyDirectory) LinkExternalID(context.Context, string, string) (*auth.Identity, error) {
	return nil, auth.ErrIdentityNotFound
}

type emptyCatalog struct{}

func (emptyCatalog) List(context.Context) ([]catalog.Template, error) { return nil, nil }
func (emptyCatalog) FindByID(context.Context, string) (*catalog.Template, error) {
	return nil, catalog.ErrTemplateNotFound
}
func (emptyCatalog) ListByCategory(context.Context, string) ([]catalog.Template, error) {
	return nil, nil
}
func (emptyCatalog) ListTemplates(context.Context, string) ([]catalog.Template, error) {
	return nil, nil
}
func (emptyCatalog) Add(context.Context, string, string) error    { return nil }
func (emptyCatalog) Remove(context.Context, string, string) error { return catalog.ErrFavoriteNotFound }
func (emptyCatalog) Exists(context.Context, string, string) (bool, error) {
	return false, nil
}

func testRouter(t *testing.T, readiness ...httpserver.Check) http.Handler {
	t.Helper()
	return testRouterWithConfig(t, appConfig{
		Env:            "production",
		AllowedOrigins: []string{"https://app.example.com"},
		BodyLimit:      1024,
	}, readiness...)
}

func testRouterWithConfig(t *testing.T, cfg appConfig, readiness ...httpserver.Check) http.Handler {
	t.Helper()

	authCfg := auth.Config{TokenConfig: auth.TokenConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Issuer:     "tmplstore",
		Audience:   "tmplstore-api",
	}}
	tokens, err := auth.NewTokenService(authCfg.TokenConfig, auth.NewMemoryRegistry())
	require.NoError(t, err)

	return newRouter(routerDeps{
		cfg:       cfg,
		auth:      auth.NewService(emptyDirectory{}, auth.NewArgon2Hasher(), tokens, authCfg),
		catalog:   catalog.NewService(emptyCatalog{}, emptyCatalog{}),
		readiness: readiness,
	})
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRouter(t *testing.T) {
	t.Parallel()

	t.Run("health", func(t *testing.T) {
		t.Parallel()
		rec := get(testRouter(t), "/api/health")
		assert.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "Template Store API is running", body["message"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("readiness reports failing dependencies", func(t *testing.T) {
		t.Parallel()
		h := testRouter(t,
			httpserver.Check{Name: "mongodb", Fn: func(context.Context) error { return nil }},
			httpserver.Check{Name: "redis", Fn: func(context.Context) error { return errors.New("down") }},
		)
		rec := get(h, "/api/health/ready")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, map[string]any{"mongodb": "ok", "redis": "unavailable"}, body["data"])
	})

	t.Run("unknown route", func(t *testing.T) {
		t.Parallel()
		rec := get(testRouter(t), "/api/nope")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Route /api/nope not found", body["message"])
	})

	t.Run("security headers and request id", func(t *testing.T) {
		t.Parallel()
		rec := get(testRouter(t), "/api/templates")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

		body := decodeBody(t, rec)
		assert.Equal(t, []any{}, body["data"])
	})

	t.Run("cors preflight", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		testRouter(t).ServeHTTP(rec, req)

		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard origin never allows credentials", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		testRouterWithConfig(t, appConfig{Env: "production", BodyLimit: 1024}).ServeHTTP(rec, req)

		assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("protected routes require a token", func(t *testing.T) {
		t.Parallel()
		h := testRouter(t)

		rec := get(h, "/api/auth/me")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = get(h, "/api/favorites")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("google routes absent when disabled", func(t *testing.T) {
		t.Parallel()
		rec := get(testRouter(t), "/api/auth/google")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAppConfig(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "production", appConfig{NodeEnv: "production"}.environment().String())
	assert.Equal(t, "staging", appConfig{Env: "staging", NodeEnv: "production"}.environment().String())

	assert.Equal(t, []string{"https://a.example.com"}, appConfig{AllowedOrigin: "https://a.example.com"}.origins())
	assert.Equal(t, []string{"https://c.example.com"}, appConfig{ClientURL: "https://c.example.com"}.origins())
	assert.Equal(t, []string{"*"}, appConfig{}.origins())
	assert.False(t, appConfig{}.allowCredentials())
	assert.True(t, appConfig{ClientURL: "https://c.example.com"}.allowCredentials())

	assert.Equal(t, "jwt", appConfig{}.stateSecret("jwt"))
	assert.Equal(t, "session", appConfig{SessionSecret: "session"}.stateSecret("jwt"))
}
