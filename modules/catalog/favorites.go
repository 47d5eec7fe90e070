package catalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/modules/account"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/binder"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

// FavoriteService serves the signed-in user's favorites.
type FavoriteService struct {
	svc          *catalog.Service
	authn        auth.Authenticator
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewFavoriteService(svc *catalog.Service, authn auth.Authenticator, errorHandler handler.ErrorHandler[handler.Context]) *FavoriteService {
	return &FavoriteService{svc: svc, authn: authn, errorHandler: errorHandler}
}

func (s *FavoriteService) Mount(r chi.Router) {
	r.Use(auth.Middleware(s.authn, auth.WithMiddlewareErrorHandler(account.NewMiddlewareErrorHandler(s.errorHandler))))

	r.Get("/", handler.Wrap(s.list,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Post("/{templateId}", handler.Wrap(s.add,
		handler.WithBinders[handler.Context, favoriteRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, favoriteRequest](s.errorHandler),
	))
	r.Delete("/{templateId}", handler.Wrap(s.remove,
		handler.WithBinders[handler.Context, favoriteRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, favoriteRequest](s.errorHandler),
	))
}

func (s *FavoriteService) list(ctx handler.Context, _ struct{}) handler.Response {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return handler.Error(account.MapError(auth.ErrMissingToken))
	}

	templates, err := s.svc.Favorites(ctx, identity.ID)
	if err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Favorites retrieved successfully", nonNil(templates))
}

func (s *FavoriteService) add(ctx handler.Context, req favoriteRequest) handler.Response {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return handler.Error(account.MapError(auth.ErrMissingToken))
	}

	if err := s.svc.AddFavorite(ctx, identity.ID, req.TemplateID); err != nil {
		return handler.Error(MapError(err))
	}
	return handler.Created("Template added to favorites", nil)
}

func (s *FavoriteService) remove(ctx handler.Context, req favoriteRequest) handler.Response {
	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		return handler.Error(account.MapError(auth.ErrMissingToken))
	}

	if err := s.svc.RemoveFavorite(ctx, identity.ID, req.TemplateID); err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Template removed from favorites", nil)
}
