package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tmplstore/pkg/auth"
)

type serviceFixture struct {
	dir    *MockDirectory
	hasher *auth.Argon2Hasher
	tokens *auth.TokenService
	svc    *auth.Service
}

func newServiceFixture(t *testing.T, mutate ...func(*auth.Config)) *serviceFixture {
	t.Helper()

	cfg := auth.Config{
		TokenConfig:          testTokenConfig(),
		IssueRefreshToken:    true,
		RequireVerifiedEmail: true,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}

	tokens, err := auth.NewTokenService(cfg.TokenConfig, auth.NewMemoryRegistry())
	require.NoError(t, err)

	f := &serviceFixture{dir: &MockDirectory{}, hasher: fastHasher(), tokens: tokens}
	f.svc = auth.NewService(f.dir, f.hasher, tokens, cfg)
	t.Cleanup(func() { f.dir.AssertExpectations(t) })
	return f
}

func (f *serviceFixture) passwordIdentity(t *testing.T, id, email, password string) *auth.Identity {
	t.Helper()
	hash, err := f.hasher.Hash(context.Background(), password)
	require.NoError(t, err)
	now := time.Now()
	return &auth.Identity{ID: id, Email: email, PasswordHash: hash, Name: "Jane", CreatedAt: now, UpdatedAt: now}
}

func assignID(id string) func(mock.Arguments) {
	return func(args mock.Arguments) {
		identity := args.Get(1).(*auth.Identity)
		identity.ID = id
		identity.CreatedAt = time.Now()
		identity.UpdatedAt = identity.CreatedAt
	}
}

func TestService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("validation", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)

		_, err := f.svc.Register(ctx, "", "secret123", "")
		assert.ErrorIs(t, err, auth.ErrInvalidInput)

		_, err = f.svc.Register(ctx, "a@example.com", "", "")
		assert.ErrorIs(t, err, auth.ErrInvalidInput)

		_, err = f.svc.Register(ctx, "   ", "secret123", "")
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	})

	t.Run("accepts any non-empty password", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("Create", mock.Anything, mock.Anything).Run(assignID("user-1")).Return(nil)

		out, err := f.svc.Register(ctx, "a@x.com", "abc", "")
		require.NoError(t, err)
		assert.Equal(t, "user-1", out.User.ID)
		assert.NotEmpty(t, out.AccessToken)
	})

	t.Run("creates identity with hashed password", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)

		f.dir.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("Create", mock.Anything, mock.MatchedBy(func(i *auth.Identity) bool {
			return i.Email == "a@example.com" && i.Name == "Jane" && i.PasswordHash != "" && i.PasswordHash != "secret123"
		})).Run(assignID("user-1")).Return(nil)

		out, err := f.svc.Register(ctx, "  A@Example.com ", "secret123", "Jane")
		require.NoError(t, err)
		assert.Equal(t, "user-1", out.User.ID)
		assert.Equal(t, "a@example.com", out.User.Email)
		assert.NotEmpty(t, out.RefreshToken)

		claims, err := f.tokens.VerifyAccessToken(out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
	})

	t.Run("existing email", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").
			Return(f.passwordIdentity(t, "user-1", "a@example.com", "secret123"), nil)

		_, err := f.svc.Register(ctx, "a@example.com", "secret123", "")
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("lost insert race", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("Create", mock.Anything, mock.Anything).Return(auth.ErrEmailAlreadyExists)

		_, err := f.svc.Register(ctx, "a@example.com", "secret123", "")
		assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
	})

	t.Run("storage failure is internal", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		boom := errors.New("connection refused")
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, boom)

		_, err := f.svc.Register(ctx, "a@example.com", "secret123", "")
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))
		assert.ErrorIs(t, err, boom)
	})

	t.Run("refresh tokens can be disabled", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t, func(c *auth.Config) { c.IssueRefreshToken = false })
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("Create", mock.Anything, mock.Anything).Run(assignID("user-1")).Return(nil)

		out, err := f.svc.Register(ctx, "a@example.com", "secret123", "")
		require.NoError(t, err)
		assert.NotEmpty(t, out.AccessToken)
		assert.Empty(t, out.RefreshToken)
	})
}

func TestService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").
			Return(f.passwordIdentity(t, "user-1", "a@example.com", "secret123"), nil)

		out, err := f.svc.Login(ctx, "A@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "user-1", out.User.ID)
		assert.NotEmpty(t, out.AccessToken)
		assert.NotEmpty(t, out.RefreshToken)
	})

	t.Run("unknown email and wrong password look the same", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").
			Return(f.passwordIdentity(t, "user-1", "a@example.com", "secret123"), nil)

		_, errUnknown := f.svc.Login(ctx, "ghost@example.com", "secret123")
		_, errWrong := f.svc.Login(ctx, "a@example.com", "wrong-pass")

		assert.ErrorIs(t, errUnknown, auth.ErrInvalidCredentials)
		assert.ErrorIs(t, errWrong, auth.ErrInvalidCredentials)
		assert.Equal(t, errUnknown.Error(), errWrong.Error())
	})

	t.Run("oauth-only account", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByEmail", mock.Anything, "g@example.com").
			Return(&auth.Identity{ID: "user-2", Email: "g@example.com", ExternalID: "g-1"}, nil)

		_, err := f.svc.Login(ctx, "g@example.com", "secret123")
		assert.ErrorIs(t, err, auth.ErrExternalSignInRequired)
		assert.Equal(t, auth.KindUnauthenticated, auth.KindOf(err))
	})

	t.Run("missing input", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		_, err := f.svc.Login(ctx, "a@example.com", "")
		assert.ErrorIs(t, err, auth.ErrInvalidInput)
	})
}

func TestService_OAuthLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	profile := auth.ExternalProfile{
		Provider:      auth.ProviderGoogle,
		ProviderID:    "g-123",
		Email:         "Jane@Example.com",
		EmailVerified: true,
		Name:          "Jane Doe",
	}

	t.Run("known external id", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByExternalID", mock.Anything, "g-123").
			Return(&auth.Identity{ID: "user-1", Email: "jane@example.com", ExternalID: "g-123"}, nil)

		out, err := f.svc.OAuthLogin(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "user-1", out.User.ID)
	})

	t.Run("links by verified email without touching password", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		existing := f.passwordIdentity(t, "user-1", "jane@example.com", "secret123")
		linked := *existing
		linked.ExternalID = "g-123"

		f.dir.On("FindByExternalID", mock.Anything, "g-123").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("FindByEmail", mock.Anything, "jane@example.com").Return(existing, nil)
		f.dir.On("LinkExternalID", mock.Anything, "user-1", "g-123").Return(&linked, nil)

		out, err := f.svc.OAuthLogin(ctx, profile)
		require.NoError(t, err)
		assert.Equal(t, "user-1", out.User.ID)
		assert.Equal(t, "jane@example.com", out.User.Email)
	})

	t.Run("concurrent link of another account conflicts", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)

		// The read still sees no external id; the directory refuses the write.
		f.dir.On("FindByExternalID", mock.Anything, "g-123").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("FindByEmail", mock.Anything, "jane@example.com").
			Return(f.passwordIdentity(t, "user-1", "jane@example.com", "secret123"), nil)
		f.dir.On("LinkExternalID", mock.Anything, "user-1", "g-123").Return(nil, auth.ErrExternalAccountConflict)

		_, err := f.svc.OAuthLogin(ctx, profile)
		assert.ErrorIs(t, err, auth.ErrExternalAccountConflict)
		assert.Equal(t, auth.KindConflict, auth.KindOf(err))
	})

	t.Run("concurrent first sign-in conflicts", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByExternalID", mock.Anything, "g-123").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("Create", mock.Anything, mock.Anything).Return(auth.ErrExternalAccountConflict)

		_, err := f.svc.OAuthLogin(ctx, profile)
		assert.ErrorIs(t, err, auth.ErrExternalAccountConflict)
	})

	t.Run("unverified email cannot link", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		unverified := profile
		unverified.EmailVerified = false

		f.dir.On("FindByExternalID", mock.Anything, "g-123").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("FindByEmail", mock.Anything, "jane@example.com").
			Return(&auth.Identity{ID: "user-1", Email: "jane@example.com", PasswordHash: "x"}, nil)

		_, err := f.svc.OAuthLogin(ctx, unverified)
		assert.ErrorIs(t, err, auth.ErrUnverifiedEmail)
		assert.Equal(t, auth.KindForbidden, auth.KindOf(err))
	})

	t.Run("email bound to another external account", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByExternalID", mock.Anything, "g-123").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("FindByEmail", mock.Anything, "jane@example.com").
			Return(&auth.Identity{ID: "user-1", Email: "jane@example.com", ExternalID: "g-999"}, nil)

		_, err := f.svc.OAuthLogin(ctx, profile)
		assert.ErrorIs(t, err, auth.ErrExternalAccountConflict)
	})

	t.Run("creates identity with fallbacks", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		bare := auth.ExternalProfile{Provider: auth.ProviderGoogle, ProviderID: "g-456"}

		f.dir.On("FindByExternalID", mock.Anything, "g-456").Return(nil, auth.ErrIdentityNotFound)
		f.dir.On("Create", mock.Anything, mock.MatchedBy(func(i *auth.Identity) bool {
			return i.Email == "g-456@google.oauth" && i.Name == "Google User" && i.ExternalID == "g-456" && i.PasswordHash == ""
		})).Run(assignID("user-9")).Return(nil)

		out, err := f.svc.OAuthLogin(ctx, bare)
		require.NoError(t, err)
		assert.Equal(t, "user-9", out.User.ID)
		assert.Equal(t, "Google User", out.User.Name)
	})
}

// flakyRegistry fails Put while failPut is set.
type flakyRegistry struct {
	auth.RevocationRegistry
	failPut bool
}

func (r *flakyRegistry) Put(ctx context.Context, identityID, tokenID string, ttl time.Duration) error {
	if r.failPut {
		return errors.New("registry unavailable")
	}
	return r.RevocationRegistry.Put(ctx, identityID, tokenID, ttl)
}

func TestService_RefreshAndLogout(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	login := func(t *testing.T, f *serviceFixture) *auth.AuthOutcome {
		t.Helper()
		identity := f.passwordIdentity(t, "user-1", "a@example.com", "secret123")
		f.dir.On("FindByEmail", mock.Anything, "a@example.com").Return(identity, nil)
		f.dir.On("FindByID", mock.Anything, "user-1").Return(identity, nil).Maybe()
		out, err := f.svc.Login(ctx, "a@example.com", "secret123")
		require.NoError(t, err)
		return out
	}

	t.Run("refresh issues a new access token", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		out := login(t, f)

		refreshed, err := f.svc.Refresh(ctx, out.RefreshToken, "user-1")
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.Empty(t, refreshed.RefreshToken)

		again, err := f.svc.Refresh(ctx, out.RefreshToken, "")
		require.NoError(t, err)
		assert.NotEmpty(t, again.AccessToken)
	})

	t.Run("refresh rejects mismatched identity", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		out := login(t, f)

		_, err := f.svc.Refresh(ctx, out.RefreshToken, "user-2")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("rotation revokes the presented token", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t, func(c *auth.Config) { c.RotateRefreshTokens = true })
		out := login(t, f)

		refreshed, err := f.svc.Refresh(ctx, out.RefreshToken, "user-1")
		require.NoError(t, err)
		require.NotEmpty(t, refreshed.RefreshToken)

		_, err = f.svc.Refresh(ctx, out.RefreshToken, "user-1")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)

		_, err = f.svc.Refresh(ctx, refreshed.RefreshToken, "user-1")
		assert.NoError(t, err)
	})

	t.Run("rotation keeps the presented token when issuing fails", func(t *testing.T) {
		t.Parallel()

		cfg := auth.Config{TokenConfig: testTokenConfig(), IssueRefreshToken: true, RotateRefreshTokens: true}
		registry := &flakyRegistry{RevocationRegistry: auth.NewMemoryRegistry()}
		tokens, err := auth.NewTokenService(cfg.TokenConfig, registry)
		require.NoError(t, err)

		dir := &MockDirectory{}
		identity := &auth.Identity{ID: "user-1", Email: "a@example.com", PasswordHash: "x"}
		dir.On("FindByID", mock.Anything, "user-1").Return(identity, nil)
		svc := auth.NewService(dir, fastHasher(), tokens, cfg)

		refresh, err := tokens.IssueRefreshToken(ctx, "user-1", "a@example.com")
		require.NoError(t, err)

		registry.failPut = true
		_, err = svc.Refresh(ctx, refresh.Value, "user-1")
		assert.Equal(t, auth.KindInternal, auth.KindOf(err))

		registry.failPut = false
		refreshed, err := svc.Refresh(ctx, refresh.Value, "user-1")
		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.RefreshToken)
	})

	t.Run("logout revokes refresh tokens", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		out := login(t, f)

		require.NoError(t, f.svc.Logout(ctx, "user-1"))

		_, err := f.svc.Refresh(ctx, out.RefreshToken, "user-1")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)

		identity, err := f.svc.Authenticate(ctx, out.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user-1", identity.ID)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		_, err := f.svc.Refresh(ctx, "", "user-1")
		assert.ErrorIs(t, err, auth.ErrMissingToken)
	})

	t.Run("deleted identity", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		refresh, err := f.tokens.IssueRefreshToken(ctx, "user-1", "a@example.com")
		require.NoError(t, err)
		f.dir.On("FindByID", mock.Anything, "user-1").Return(nil, auth.ErrIdentityNotFound)

		_, err = f.svc.Refresh(ctx, refresh.Value, "user-1")
		assert.ErrorIs(t, err, auth.ErrIdentityGone)
		assert.Equal(t, auth.KindUnauthenticated, auth.KindOf(err))

		_, err = f.svc.Refresh(ctx, refresh.Value, "")
		assert.Equal(t, auth.KindUnauthenticated, auth.KindOf(err))
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		out := login(t, f)

		_, err := f.svc.Refresh(ctx, out.AccessToken, "user-1")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
		assert.Equal(t, auth.KindUnauthenticated, auth.KindOf(err))

		_, err = f.svc.Refresh(ctx, out.AccessToken, "")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})
}

func TestService_Authenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("missing and invalid tokens", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)

		_, err := f.svc.Authenticate(ctx, "")
		assert.ErrorIs(t, err, auth.ErrMissingToken)

		_, err = f.svc.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	})

	t.Run("deleted identity", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByID", mock.Anything, "user-1").Return(nil, auth.ErrIdentityNotFound)

		tok, err := f.tokens.IssueAccessToken("user-1", "a@example.com")
		require.NoError(t, err)

		_, err = f.svc.Authenticate(ctx, tok.Value)
		assert.ErrorIs(t, err, auth.ErrIdentityGone)
		assert.Equal(t, auth.KindUnauthenticated, auth.KindOf(err))
	})

	t.Run("identity lookup", func(t *testing.T) {
		t.Parallel()
		f := newServiceFixture(t)
		f.dir.On("FindByID", mock.Anything, "missing").Return(nil, auth.ErrIdentityNotFound)

		_, err := f.svc.Identity(ctx, "missing")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
		assert.Equal(t, auth.KindNotFound, auth.KindOf(err))
	})
}
