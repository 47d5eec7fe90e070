package catalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/binder"
	"github.com/dmitrymomot/tmplstore/pkg/sanitizer"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

// TemplateService serves the public catalogue. Signed-in callers also get
// the isFavorite flag on a single template.
type TemplateService struct {
	svc          *catalog.Service
	authn        auth.Authenticator
	errorHandler handler.ErrorHandler[handler.Context]
}

func NewTemplateService(svc *catalog.Service, authn auth.Authenticator, errorHandler handler.ErrorHandler[handler.Context]) *TemplateService {
	return &TemplateService{svc: svc, authn: authn, errorHandler: errorHandler}
}

func (s *TemplateService) Mount(r chi.Router) {
	r.Get("/", handler.Wrap(s.list,
		handler.WithErrorHandler[handler.Context, struct{}](s.errorHandler),
	))
	r.Get("/search", handler.Wrap(s.search,
		handler.WithBinders[handler.Context, searchRequest](binder.Query()),
		handler.WithErrorHandler[handler.Context, searchRequest](s.errorHandler),
	))

	r.Group(func(r chi.Router) {
		if s.authn != nil {
			r.Use(auth.OptionalMiddleware(s.authn))
		}
		r.Get("/{id}", handler.Wrap(s.get,
			handler.WithBinders[handler.Context, templateRequest](binder.Path(chi.URLParam)),
			handler.WithErrorHandler[handler.Context, templateRequest](s.errorHandler),
		))
	})
}

func (s *TemplateService) list(ctx handler.Context, _ struct{}) handler.Response {
	templates, err := s.svc.List(ctx)
	if err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Templates retrieved successfully", nonNil(templates))
}

func (s *TemplateService) search(ctx handler.Context, req searchRequest) handler.Response {
	templates, err := s.svc.Search(ctx, sanitizer.SearchQuery(req.Query), sanitizer.SearchQuery(req.Category))
	if err != nil {
		return handler.Error(MapError(err))
	}
	return handler.JSON("Templates retrieved successfully", nonNil(templates))
}

func (s *TemplateService) get(ctx handler.Context, req templateRequest) handler.Response {
	t, err := s.svc.Get(ctx, req.ID)
	if err != nil {
		return handler.Error(MapError(err))
	}

	resp := templateResponse{Template: *t}
	if identity, ok := auth.IdentityFromContext(ctx); ok {
		resp.IsFavorite, err = s.svc.IsFavorite(ctx, identity.ID, t.ID)
		if err != nil {
			return handler.Error(MapError(err))
		}
	}
	return handler.JSON("Template retrieved successfully", resp)
}

// nonNil keeps empty lists rendering as [] rather than null.
func nonNil(templates []catalog.Template) []catalog.Template {
	if templates == nil {
		return []catalog.Template{}
	}
	return templates
}
