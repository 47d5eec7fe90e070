package account_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

// memDirectory is an in-memory auth.Directory.
type memDirectory struct {
	mu    sync.Mutex
	byID  map[string]*auth.Identity
	order []string
}

func newMemDirectory() *memDirectory {
	return &memDirectory{byID: make(map[string]*auth.Identity)}
}

func (d *memDirectory) Create(_ context.Context, identity *auth.Identity) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, existing := range d.byID {
		if existing.Email == identity.Email {
			return auth.ErrEmailAlreadyExists
		}
		if identity.ExternalID != "" && existing.ExternalID == identity.ExternalID {
			return auth.ErrExternalAccountConflict
		}
	}
	identity.ID = uuid.NewString()
	identity.CreatedAt = time.Now()
	identity.UpdatedAt = identity.CreatedAt
	cp := *identity
	d.byID[identity.ID] = &cp
	d.order = append(d.order, identity.ID)
	return nil
}

func (d *memDirectory) find(match func(*auth.Identity) bool) (*auth.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range d.order {
		if identity, ok := d.byID[id]; ok && match(identity) {
			cp := *identity
			return &cp, nil
		}
	}
	return nil, auth.ErrIdentityNotFound
}

func (d *memDirectory) FindByID(_ context.Context, id string) (*auth.Identity, error) {
	return d.find(func(i *auth.Identity) bool { return i.ID == id })
}

func (d *memDirectory) FindByEmail(_ context.Context, email string) (*auth.Identity, error) {
	return d.find(func(i *auth.Identity) bool { return i.Email == email })
}

func (d *memDirectory) FindByExternalID(_ context.Context, externalID string) (*auth.Identity, error) {
	return d.find(func(i *auth.Identity) bool { return i.ExternalID != "" && i.ExternalID == externalID })
}

func (d *memDirectory) LinkExternalID(_ context.Context, id, externalID string) (*auth.Identity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	identity, ok := d.byID[id]
	if !ok {
		return nil, auth.ErrIdentityNotFound
	}
	if identity.ExternalID != "" && identity.ExternalID != externalID {
		return nil, auth.ErrExternalAccountConflict
	}
	identity.ExternalID = externalID
	identity.UpdatedAt = time.Now()
	cp := *identity
	return &cp, nil
}

func newAuthService(t *testing.T) *auth.Service {
	t.Helper()
	svc, _ := newAuthServiceWithTokens(t)
	return svc
}

func newAuthServiceWithTokens(t *testing.T) (*auth.Service, *auth.TokenService) {
	t.Helper()

	cfg := auth.Config{
		TokenConfig: auth.TokenConfig{
			Secret:     "0123456789abcdef0123456789abcdef",
			AccessTTL:  15 * time.Minute,
			RefreshTTL: time.Hour,
			Issuer:     "tmplstore",
			Audience:   "tmplstore-api",
		},
		IssueRefreshToken:    true,
		RequireVerifiedEmail: true,
	}
	tokens, err := auth.NewTokenService(cfg.TokenConfig, auth.NewMemoryRegistry())
	require.NoError(t, err)

	hasher := auth.NewArgon2Hasher(auth.WithArgon2Params(auth.Argon2Params{
		Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	}))
	return auth.NewService(newMemDirectory(), hasher, tokens, cfg), tokens
}

type envelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func do(h http.Handler, method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

var errorHandler = handler.NewErrorHandler(nil, handler.ErrorHandlerConfig{})
