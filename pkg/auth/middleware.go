package auth

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/tmplstore/pkg/jwt"
)

// Authenticator resolves an access token to an identity. *Service
// implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*Identity, error)
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity attached by Middleware.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*Identity)
	return identity, ok && identity != nil
}

// MiddlewareErrorHandler renders an authentication failure.
type MiddlewareErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type middlewareOptions struct {
	extractor    jwt.TokenExtractorFunc
	errorHandler MiddlewareErrorHandler
}

type MiddlewareOption func(*middlewareOptions)

// WithTokenExtractor replaces the default bearer header extractor.
func WithTokenExtractor(fn jwt.TokenExtractorFunc) MiddlewareOption {
	return func(o *middlewareOptions) {
		if fn != nil {
			o.extractor = fn
		}
	}
}

func WithMiddlewareErrorHandler(fn MiddlewareErrorHandler) MiddlewareOption {
	return func(o *middlewareOptions) {
		if fn != nil {
			o.errorHandler = fn
		}
	}
}

func defaultMiddlewareErrorHandler(w http.ResponseWriter, _ *http.Request, _ error) {
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}

func newMiddlewareOptions(opts []MiddlewareOption) *middlewareOptions {
	o := &middlewareOptions{
		extractor:    jwt.BearerTokenExtractor,
		errorHandler: defaultMiddlewareErrorHandler,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Middleware rejects requests without a valid access token and attaches
// the identity to the request context otherwise.
func Middleware(authn Authenticator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := newMiddlewareOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := o.extractor(r)
			if err != nil {
				o.errorHandler(w, r, ErrMissingToken)
				return
			}

			identity, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				o.errorHandler(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// OptionalMiddleware attaches the identity when the request carries a valid
// access token and never fails the request.
func OptionalMiddleware(authn Authenticator, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := newMiddlewareOptions(opts)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := o.extractor(r)
			if err == nil {
				if identity, err := authn.Authenticate(r.Context(), token); err == nil {
					r = r.WithContext(WithIdentity(r.Context(), identity))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
