package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

func newGoogleServer(t *testing.T, userJSON string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		if r.PostForm.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userJSON))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGoogleProvider(srv *httptest.Server) *auth.GoogleProvider {
	return auth.NewGoogleProvider(auth.GoogleOAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:3000/api/auth/google/callback",
		Scopes:       []string{"openid", "email"},
	},
		auth.WithGoogleEndpoint(oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		}, srv.URL+"/userinfo"),
		auth.WithGoogleHTTPClient(srv.Client()),
	)
}

func TestGoogleProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("auth url carries state and client", func(t *testing.T) {
		t.Parallel()
		srv := newGoogleServer(t, `{}`)
		p := newTestGoogleProvider(srv)

		u, err := url.Parse(p.AuthURL("state-123"))
		require.NoError(t, err)
		assert.Equal(t, "state-123", u.Query().Get("state"))
		assert.Equal(t, "client-id", u.Query().Get("client_id"))
		assert.Equal(t, "code", u.Query().Get("response_type"))
		assert.Equal(t, "google", p.Name())
	})

	t.Run("exchange returns profile", func(t *testing.T) {
		t.Parallel()
		srv := newGoogleServer(t, `{"id":"g-1","email":"jane@example.com","verified_email":true,"name":"Jane"}`)
		p := newTestGoogleProvider(srv)

		profile, err := p.Exchange(ctx, "good-code")
		require.NoError(t, err)
		assert.Equal(t, auth.ExternalProfile{
			Provider:      auth.ProviderGoogle,
			ProviderID:    "g-1",
			Email:         "jane@example.com",
			EmailVerified: true,
			Name:          "Jane",
		}, profile)
	})

	t.Run("bad code", func(t *testing.T) {
		t.Parallel()
		srv := newGoogleServer(t, `{}`)
		_, err := newTestGoogleProvider(srv).Exchange(ctx, "bad-code")
		assert.ErrorIs(t, err, auth.ErrOAuthExchange)

		_, err = newTestGoogleProvider(srv).Exchange(ctx, "")
		assert.ErrorIs(t, err, auth.ErrOAuthExchange)
	})

	t.Run("profile without id", func(t *testing.T) {
		t.Parallel()
		srv := newGoogleServer(t, `{"email":"jane@example.com"}`)
		_, err := newTestGoogleProvider(srv).Exchange(ctx, "good-code")
		assert.ErrorIs(t, err, auth.ErrOAuthExchange)
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		assert.False(t, auth.GoogleOAuthConfig{}.Enabled())
		assert.True(t, auth.GoogleOAuthConfig{ClientID: "a", ClientSecret: "b"}.Enabled())
	})
}
