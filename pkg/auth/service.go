package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/tmplstore/pkg/logger"
)

// Config holds the token settings and the flow switches of Service.
type Config struct {
	TokenConfig

	IssueRefreshToken    bool `env:"AUTH_ISSUE_REFRESH_TOKEN" envDefault:"true"`
	RotateRefreshTokens  bool `env:"AUTH_ROTATE_REFRESH_TOKENS" envDefault:"false"`
	RequireVerifiedEmail bool `env:"OAUTH_REQUIRE_VERIFIED_EMAIL" envDefault:"true"`
}

// Service implements the sign-in flows. Every error it returns is an *Error.
type Service struct {
	directory Directory
	hasher    Hasher
	tokens    *TokenService
	cfg       Config
	logger    *slog.Logger
}

type ServiceOption func(*Service)

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewService(directory Directory, hasher Hasher, tokens *TokenService, cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		directory: directory,
		hasher:    hasher,
		tokens:    tokens,
		cfg:       cfg,
		logger:    logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("auth"))
	return s
}

// Register creates a password identity and signs it in. Password policy is
// enforced by callers; any non-empty password is accepted here.
func (s *Service) Register(ctx context.Context, email, password, name string) (*AuthOutcome, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	switch _, err := s.directory.FindByEmail(ctx, email); {
	case err == nil:
		return nil, ErrEmailAlreadyExists
	case !errors.Is(err, ErrIdentityNotFound):
		return nil, internal("look up identity", err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, internal("hash password", err)
	}

	identity := &Identity{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
	}
	if err := s.directory.Create(ctx, identity); err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, internal("create identity", err)
	}

	s.logger.InfoContext(ctx, "identity registered", logger.IdentityID(identity.ID), logger.Event("register"))
	return s.signIn(ctx, identity)
}

// Login checks a password. Unknown emails and wrong passwords produce the
// same error after comparable work.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthOutcome, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	identity, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrIdentityNotFound) {
			return nil, internal("look up identity", err)
		}
		if err := s.verifyDummy(ctx, password); err != nil {
			return nil, internal("verify password", err)
		}
		return nil, ErrInvalidCredentials
	}

	if !identity.HasPassword() {
		if err := s.verifyDummy(ctx, password); err != nil {
			return nil, internal("verify password", err)
		}
		return nil, ErrExternalSignInRequired
	}

	ok, err := s.hasher.Verify(ctx, identity.PasswordHash, password)
	if err != nil {
		return nil, internal("verify password", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "login rejected", logger.IdentityID(identity.ID), logger.Event("login"))
		return nil, ErrInvalidCredentials
	}

	s.logger.InfoContext(ctx, "identity signed in", logger.IdentityID(identity.ID), logger.Event("login"))
	return s.signIn(ctx, identity)
}

// OAuthLogin resolves an external profile to an identity: by external id,
// then by email (linking), else a new identity is created.
func (s *Service) OAuthLogin(ctx context.Context, profile ExternalProfile) (*AuthOutcome, error) {
	if profile.ProviderID == "" {
		return nil, wrap(ErrOAuthExchange, errors.New("profile has no provider id"))
	}
	provider := profile.Provider
	if provider == "" {
		provider = "oauth"
	}
	log := s.logger.With(logger.Provider(provider))

	identity, err := s.directory.FindByExternalID(ctx, profile.ProviderID)
	switch {
	case err == nil:
		log.InfoContext(ctx, "identity signed in", logger.IdentityID(identity.ID), logger.Event("oauth_login"))
		return s.signIn(ctx, identity)
	case !errors.Is(err, ErrIdentityNotFound):
		return nil, internal("look up identity", err)
	}

	email := normalizeEmail(profile.Email)
	if email != "" {
		identity, err = s.directory.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return s.link(ctx, log, identity, profile)
		case !errors.Is(err, ErrIdentityNotFound):
			return nil, internal("look up identity", err)
		}
	} else {
		email = profile.ProviderID + "@" + provider + ".oauth"
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = cases.Title(language.English).String(provider) + " User"
	}

	identity = &Identity{
		Email:      email,
		Name:       name,
		ExternalID: profile.ProviderID,
	}
	if err := s.directory.Create(ctx, identity); err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, ErrExternalAccountConflict):
			return nil, ErrExternalAccountConflict
		}
		return nil, internal("create identity", err)
	}

	log.InfoContext(ctx, "identity registered", logger.IdentityID(identity.ID), logger.Event("oauth_register"))
	return s.signIn(ctx, identity)
}

// link binds the external id to an existing identity. The directory applies
// the update only while no other external id is bound, so a concurrent link
// of a different account fails with ErrExternalAccountConflict.
func (s *Service) link(ctx context.Context, log *slog.Logger, identity *Identity, profile ExternalProfile) (*AuthOutcome, error) {
	if identity.ExternalID != "" && identity.ExternalID != profile.ProviderID {
		return nil, ErrExternalAccountConflict
	}
	if s.cfg.RequireVerifiedEmail && !profile.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	linked, err := s.directory.LinkExternalID(ctx, identity.ID, profile.ProviderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrIdentityNotFound):
			return nil, ErrIdentityNotFound
		case errors.Is(err, ErrExternalAccountConflict):
			return nil, ErrExternalAccountConflict
		}
		return nil, internal("link identity", err)
	}

	log.InfoContext(ctx, "external account linked", logger.IdentityID(linked.ID), logger.Event("oauth_link"))
	return s.signIn(ctx, linked)
}

// Refresh exchanges a refresh token for a new access token. An empty
// identityID means the token's own subject.
func (s *Service) Refresh(ctx context.Context, refreshToken, identityID string) (*RefreshOutcome, error) {
	if refreshToken == "" {
		return nil, ErrMissingToken
	}
	if identityID == "" {
		sub, err := s.tokens.PeekRefreshSubject(refreshToken)
		if err != nil {
			return nil, ErrTokenInvalid
		}
		identityID = sub
	}

	claims, err := s.tokens.VerifyRefreshToken(ctx, refreshToken, identityID)
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			return nil, ErrTokenInvalid
		}
		return nil, internal("verify refresh token", err)
	}

	identity, err := s.directory.FindByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrIdentityGone
		}
		return nil, internal("look up identity", err)
	}

	access, err := s.tokens.IssueAccessToken(identity.ID, identity.Email)
	if err != nil {
		return nil, internal("issue access token", err)
	}
	out := &RefreshOutcome{AccessToken: access.Value}

	if s.cfg.RotateRefreshTokens {
		refresh, err := s.tokens.IssueRefreshToken(ctx, identity.ID, identity.Email)
		if err != nil {
			return nil, internal("issue refresh token", err)
		}
		if err := s.tokens.RevokeRefreshToken(ctx, identity.ID, claims.ID); err != nil {
			return nil, internal("revoke refresh token", err)
		}
		out.RefreshToken = refresh.Value
	}

	s.logger.DebugContext(ctx, "tokens refreshed", logger.IdentityID(identity.ID), logger.Event("refresh"))
	return out, nil
}

// Logout revokes every refresh token of the identity. Access tokens stay
// valid until they expire.
func (s *Service) Logout(ctx context.Context, identityID string) error {
	if err := s.tokens.RevokeAllTokensForIdentity(ctx, identityID); err != nil {
		return internal("revoke tokens", err)
	}
	s.logger.InfoContext(ctx, "identity signed out", logger.IdentityID(identityID), logger.Event("logout"))
	return nil
}

// Authenticate verifies an access token and loads its identity.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*Identity, error) {
	if accessToken == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	identity, err := s.directory.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrIdentityGone
		}
		return nil, internal("look up identity", err)
	}
	return identity, nil
}

// Identity returns the identity with the given id.
func (s *Service) Identity(ctx context.Context, id string) (*Identity, error) {
	identity, err := s.directory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, internal("look up identity", err)
	}
	return identity, nil
}

func (s *Service) signIn(ctx context.Context, identity *Identity) (*AuthOutcome, error) {
	access, err := s.tokens.IssueAccessToken(identity.ID, identity.Email)
	if err != nil {
		return nil, internal("issue access token", err)
	}
	out := &AuthOutcome{AccessToken: access.Value, User: identity.Public()}

	if s.cfg.IssueRefreshToken {
		refresh, err := s.tokens.IssueRefreshToken(ctx, identity.ID, identity.Email)
		if err != nil {
			return nil, internal("issue refresh token", err)
		}
		out.RefreshToken = refresh.Value
	}
	return out, nil
}

func (s *Service) verifyDummy(ctx context.Context, password string) error {
	if d, ok := s.hasher.(interface {
		VerifyDummy(ctx context.Context, plaintext string) error
	}); ok {
		return d.VerifyDummy(ctx, password)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
