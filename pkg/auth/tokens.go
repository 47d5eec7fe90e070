package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tmplstore/pkg/jwt"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
)

const (
	KindAccess  = "access"
	KindRefresh = "refresh"
)

// TokenConfig is loaded from the environment by the composition root.
type TokenConfig struct {
	Secret     string        `env:"JWT_SECRET,required"`
	AccessTTL  time.Duration `env:"JWT_ACCESS_TTL" envDefault:"15m"`
	RefreshTTL time.Duration `env:"JWT_REFRESH_TTL" envDefault:"168h"`
	Issuer     string        `env:"JWT_ISSUER" envDefault:"tmplstore"`
	Audience   string        `env:"JWT_AUDIENCE" envDefault:"tmplstore-api"`
}

// Claims is the payload of access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	IdentityID string `json:"identityId"`
	Email      string `json:"email"`
	Kind       string `json:"kind"`
}

// TokenService issues and verifies access and refresh tokens. Refresh tokens
// are additionally recorded in a RevocationRegistry.
type TokenService struct {
	jwt        *jwt.Service
	registry   RevocationRegistry
	accessTTL  time.Duration
	refreshTTL time.Duration
	logger     *slog.Logger
	jwtOpts    []jwt.Option
}

type TokenOption func(*TokenService)

func WithTokenLogger(l *slog.Logger) TokenOption {
	return func(s *TokenService) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTokenClock overrides the time source. Used in tests.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.jwtOpts = append(s.jwtOpts, jwt.WithClock(now)) }
}

// NewTokenService fails on missing or weak secrets and non-positive TTLs.
func NewTokenService(cfg TokenConfig, registry RevocationRegistry, opts ...TokenOption) (*TokenService, error) {
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, fmt.Errorf("%w: token TTLs must be positive", ErrInvalidTokenConfig)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: revocation registry is required", ErrInvalidTokenConfig)
	}

	s := &TokenService{
		registry:   registry,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		logger:     logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	j, err := jwt.NewFromString(cfg.Secret, append(s.jwtOpts,
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
	)...)
	if err != nil {
		return nil, errors.Join(ErrInvalidTokenConfig, err)
	}
	s.jwt = j
	s.jwtOpts = nil

	return s, nil
}

// AccessTTL is the lifetime of access tokens.
func (s *TokenService) AccessTTL() time.Duration { return s.accessTTL }

func (s *TokenService) IssueAccessToken(identityID, email string) (Token, error) {
	return s.issue(identityID, email, KindAccess, s.accessTTL)
}

// IssueRefreshToken signs a refresh token and records it in the registry
// for the token's lifetime.
func (s *TokenService) IssueRefreshToken(ctx context.Context, identityID, email string) (Token, error) {
	tok, err := s.issue(identityID, email, KindRefresh, s.refreshTTL)
	if err != nil {
		return Token{}, err
	}
	if err := s.registry.Put(ctx, identityID, tok.ID, s.refreshTTL); err != nil {
		return Token{}, fmt.Errorf("failed to record refresh token: %w", err)
	}
	return tok, nil
}

// VerifyAccessToken returns ErrTokenInvalid for any failure.
func (s *TokenService) VerifyAccessToken(token string) (*Claims, error) {
	return s.parse(token, KindAccess)
}

// VerifyRefreshToken checks the token, that it belongs to identityID and
// that its registry entry still exists. Registry failures are returned as
// is; everything else is ErrTokenInvalid.
func (s *TokenService) VerifyRefreshToken(ctx context.Context, token, identityID string) (*Claims, error) {
	claims, err := s.parse(token, KindRefresh)
	if err != nil {
		return nil, err
	}
	if claims.IdentityID != identityID || claims.Subject != identityID {
		s.logger.DebugContext(ctx, "refresh token rejected",
			slog.String("reason", "identity mismatch"), logger.Component("token_service"))
		return nil, ErrTokenInvalid
	}

	ok, err := s.registry.Exists(ctx, identityID, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if !ok {
		s.logger.DebugContext(ctx, "refresh token rejected",
			slog.String("reason", "revoked"), logger.IdentityID(identityID), logger.Component("token_service"))
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// PeekRefreshSubject returns the subject of a refresh token whose signature
// and expiry verify, without consulting the registry.
func (s *TokenService) PeekRefreshSubject(token string) (string, error) {
	claims, err := s.parse(token, KindRefresh)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, identityID, tokenID string) error {
	if err := s.registry.Delete(ctx, identityID, tokenID); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (s *TokenService) RevokeAllTokensForIdentity(ctx context.Context, identityID string) error {
	if err := s.registry.DeleteAll(ctx, identityID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

func (s *TokenService) issue(identityID, email, kind string, ttl time.Duration) (Token, error) {
	now := s.jwt.Now()
	jti := uuid.NewString()
	exp := now.Add(ttl)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   identityID,
			Issuer:    s.jwt.Issuer(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		IdentityID: identityID,
		Email:      email,
		Kind:       kind,
	}
	if aud := s.jwt.Audience(); aud != "" {
		claims.Audience = []string{aud}
	}

	value, err := s.jwt.Generate(claims)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: value, ID: jti, ExpiresAt: exp}, nil
}

func (s *TokenService) parse(token, kind string) (*Claims, error) {
	var claims Claims
	if err := s.jwt.Parse(token, &claims); err != nil {
		s.logger.Debug("token rejected", logger.Error(err), slog.String("kind", kind), logger.Component("token_service"))
		return nil, wrap(ErrTokenInvalid, err)
	}
	if claims.Kind != kind {
		s.logger.Debug("token rejected", slog.String("reason", "kind mismatch"),
			slog.String("want", kind), slog.String("got", claims.Kind), logger.Component("token_service"))
		return nil, ErrTokenInvalid
	}
	if claims.ID == "" || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &claims, nil
}
