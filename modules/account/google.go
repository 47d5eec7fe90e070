package account

import (
	"context"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/binder"
	"github.com/dmitrymomot/tmplstore/pkg/cookie"
	"github.com/dmitrymomot/tmplstore/pkg/token"
)

const stateCookieName = "oauth_state"

// OAuthProvider is the provider side of the authorization code flow.
// *auth.GoogleProvider implements it.
type OAuthProvider interface {
	Name() string
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (auth.ExternalProfile, error)
}

type statePayload struct {
	Nonce string `json:"n"`
}

// OAuthConfig configures OAuthService.
type OAuthConfig struct {
	// StateSecret signs the state parameter.
	StateSecret string
	StateTTL    time.Duration
	// ClientURL receives the browser after a successful callback. When empty
	// the callback answers with JSON.
	ClientURL string
}

// OAuthService runs the browser side of an OAuth sign-in. The state
// parameter is a signed, expiring token whose nonce must match a signed
// cookie set on the same browser.
type OAuthService struct {
	svc          *auth.Service
	provider     OAuthProvider
	cookies      *cookie.Manager
	cfg          OAuthConfig
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewOAuthService(
	svc *auth.Service,
	provider OAuthProvider,
	cookies *cookie.Manager,
	cfg OAuthConfig,
	errorHandler handler.ErrorHandler[handler.Context],
) *OAuthService {
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	return &OAuthService{
		svc:          svc,
		provider:     provider,
		cookies:      cookies,
		cfg:          cfg,
		errorHandler: errorHandler,
	}
}

func (s *OAuthService) Mount(r chi.Router) {
	base := "/" + s.provider.Name()
	r.Get(base, handler.Wrap(s.begin,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get(base+"/callback", handler.Wrap(s.callback,
		handler.WithBinders[handler.Context, callbackRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, callbackRequest](s.errorHandler),
	))
}

func (s *OAuthService) begin(ctx handler.Context, _ struct{}) handler.Response {
	nonce := uuid.NewString()
	state, err := token.Generate(statePayload{Nonce: nonce}, s.cfg.StateSecret, s.cfg.StateTTL)
	if err != nil {
		return handler.Error(err)
	}

	s.cookies.SetSigned(ctx.ResponseWriter(), stateCookieName, nonce,
		cookie.WithMaxAge(int(s.cfg.StateTTL.Seconds())))
	return handler.Redirect(s.provider.AuthURL(state))
}

func (s *OAuthService) callback(ctx handler.Context, req callbackRequest) handler.Response {
	if req.Error != "" {
		return handler.Error(MapError(auth.ErrOAuthExchange))
	}

	payload, err := token.Parse[statePayload](req.State, s.cfg.StateSecret)
	if err != nil {
		return handler.Error(MapError(wrapState(err)))
	}
	nonce, err := s.cookies.GetSigned(ctx.Request(), stateCookieName)
	if err != nil {
		return handler.Error(MapError(wrapState(err)))
	}
	s.cookies.Delete(ctx.ResponseWriter(), stateCookieName)
	if nonce != payload.Nonce {
		return handler.Error(MapError(auth.ErrInvalidOAuthState))
	}

	profile, err := s.provider.Exchange(ctx, req.Code)
	if err != nil {
		return handler.Error(MapError(err))
	}

	out, err := s.svc.OAuthLogin(ctx, profile)
	if err != nil {
		return handler.Error(MapError(err))
	}

	if s.cfg.ClientURL == "" {
		return handler.JSON("Google authentication successful", out)
	}

	fragment := url.Values{}
	fragment.Set("accessToken", out.AccessToken)
	if out.RefreshToken != "" {
		fragment.Set("refreshToken", out.RefreshToken)
	}
	return handler.Redirect(s.cfg.ClientURL + "/auth/callback#" + fragment.Encode())
}

func wrapState(cause error) error {
	return &auth.Error{Kind: auth.ErrInvalidOAuthState.Kind, Message: auth.ErrInvalidOAuthState.Message, Err: cause}
}
