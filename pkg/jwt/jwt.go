package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// MinSigningKeyLength is the shortest HS256 secret accepted by New.
const MinSigningKeyLength = 32

// RegisteredClaims re-exports the RFC 7519 registered claim set so callers
// can embed it without importing golang-jwt directly.
type RegisteredClaims = gojwt.RegisteredClaims

// Claims is implemented by any claim set the service can sign or parse.
type Claims = gojwt.Claims

// NewNumericDate converts t to a JWT NumericDate with second precision.
func NewNumericDate(t time.Time) *gojwt.NumericDate {
	return gojwt.NewNumericDate(t)
}

// Service signs and verifies HS256 tokens with a single secret.
// The secret is immutable after construction.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
	leeway     time.Duration
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithIssuer sets the expected and issued "iss" claim.
func WithIssuer(iss string) Option {
	return func(s *Service) { s.issuer = iss }
}

// WithAudience sets the expected and issued "aud" claim.
func WithAudience(aud string) Option {
	return func(s *Service) { s.audience = aud }
}

// WithLeeway tolerates clock skew when checking exp/nbf/iat.
func WithLeeway(d time.Duration) Option {
	return func(s *Service) { s.leeway = d }
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a JWT service. Empty keys fail with ErrMissingSigningKey and
// keys shorter than MinSigningKeyLength fail with ErrWeakSigningKey.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}
	if len(signingKey) < MinSigningKeyLength {
		return nil, ErrWeakSigningKey
	}

	key := make([]byte, len(signingKey))
	copy(key, signingKey)

	s := &Service{signingKey: key, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromString is New for string-based configuration.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

func (s *Service) Issuer() string   { return s.issuer }
func (s *Service) Audience() string { return s.audience }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Generate signs claims with HS256.
func (s *Service) Generate(claims Claims) (string, error) {
	token, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return token, nil
}

// Parse verifies signature, algorithm, expiry and, when configured, issuer
// and audience, then decodes into claims. Tokens without "exp" are rejected.
// Every returned error wraps ErrInvalidToken, plus ErrExpiredToken or
// ErrInvalidSignature when that is the reason, plus the library error.
func (s *Service) Parse(token string, claims Claims) error {
	if token == "" {
		return ErrInvalidToken
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithIssuedAt(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.leeway > 0 {
		opts = append(opts, gojwt.WithLeeway(s.leeway))
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}
	if s.audience != "" {
		opts = append(opts, gojwt.WithAudience(s.audience))
	}

	_, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (any, error) {
		return s.signingKey, nil
	}, opts...)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// mapError always includes ErrInvalidToken so callers can treat every
// failure alike, and adds the specific reason when there is one.
func mapError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrInvalidToken, ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidToken, ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
