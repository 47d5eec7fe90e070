package account

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/binder"
)

// PasswordService serves registration and password login.
type PasswordService struct {
	svc          *auth.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewPasswordService(svc *auth.Service, errorHandler handler.ErrorHandler[handler.Context]) *PasswordService {
	return &PasswordService{svc: svc, errorHandler: errorHandler}
}

func (s *PasswordService) Mount(r chi.Router) {
	r.Post("/register", handler.Wrap(s.register,
		handler.WithBinders[handler.Context, credentialsRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, credentialsRequest](s.errorHandler),
	))
	r.Post("/login", handler.Wrap(s.login,
		handler.WithBinders[handler.Context, credentialsRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, credentialsRequest](s.errorHandler),
	))
}

func (s *PasswordService) register(ctx handler.Context, req credentialsRequest) handler.Response {
	req.normalize()
	if err := req.validateRegister(); err != nil {
		return handler.Error(err)
	}

	out, err := s.svc.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return handler.Error(MapError(err))
	}
	return handler.Created("User created successfully", out)
}

func (s *PasswordService) login(ctx handler.Context, req credentialsRequest) handler.Response {
	req.normalize()
	if err := req.validateLogin(); err != nil {
		return handler.Error(err)
	}

	out, err := s.svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Login successful", out)
}

// SessionService serves token refresh, logout and the current profile.
type SessionService struct {
	svc          *auth.Service
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewSessionService(svc *auth.Service, errorHandler handler.ErrorHandler[handler.Context]) *SessionService {
	return &SessionService{svc: svc, errorHandler: errorHandler}
}

func (s *SessionService) Mount(r chi.Router) {
	r.Post("/refresh", handler.Wrap(s.refresh,
		handler.WithBinders[handler.Context, refreshRequest](binder.JSON()),
		handler.WithErrorHandler[handler.Context, refreshRequest](s.errorHandler),
	))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(s.svc, auth.WithMiddlewareErrorHandler(NewMiddlewareErrorHandler(s.errorHandler))))
		r.Post("/logout", handler.Wrap(s.logout,
			handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
		))
		r.Get("/me", handler.Wrap(s.me,
			handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
		))
	})
}

func (s *SessionService) refresh(ctx handler.Context, req refreshRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.Error(err)
	}

	out, err := s.svc.Refresh(ctx, req.RefreshToken, req.UserID)
	if err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Token refreshed successfully", out)
}

func (s *SessionService) logout(ctx handler.Context, _ struct{}) handler.Response {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return handler.Error(MapError(auth.ErrMissingToken))
	}

	if err := s.svc.Logout(ctx, identity.ID); err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Logout successful", nil)
}

func (s *SessionService) me(ctx handler.Context, _ struct{}) handler.Response {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return handler.Error(MapError(auth.ErrMissingToken))
	}
	return handler.JSON("User profile retrieved successfully", profileResponse{
		ID:    identity.ID,
		Email: identity.Email,
		Name:  identity.Name,
	})
}
