package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/unrolled/secure"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/modules/account"
	catalogmod "github.com/dmitrymomot/tmplstore/modules/catalog"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/clientip"
	"github.com/dmitrymomot/tmplstore/pkg/environment"
	"github.com/dmitrymomot/tmplstore/pkg/httpserver"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
	"github.com/dmitrymomot/tmplstore/pkg/requestid"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
)

type routerDeps struct {
	cfg       appConfig
	log       *slog.Logger
	auth      *auth.Service
	catalog   *catalog.Service
	oauth     account.Mountable // nil when Google sign-in is disabled
	rateLimit func(http.Handler) http.Handler
	readiness []httpserver.Check
}

func newRouter(d routerDeps) http.Handler {
	env := d.cfg.environment()
	dev := env.IsDevelopment()

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.New().Middleware,
		environment.Middleware(env),
		logger.HTTPMiddleware(d.log),
		handler.Recoverer(d.log, dev),
		cors.Handler(cors.Options{
			AllowedOrigins:   d.cfg.origins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Authorization"},
			AllowCredentials: d.cfg.allowCredentials(),
			MaxAge:           300,
		}),
		secure.New(secure.Options{
			FrameDeny:            true,
			ContentTypeNosniff:   true,
			BrowserXssFilter:     true,
			ReferrerPolicy:       "no-referrer",
			STSSeconds:           15552000,
			STSIncludeSubdomains: true,
			IsDevelopment:        dev,
		}).Handler,
		chimiddleware.RequestSize(d.cfg.BodyLimit),
	)
	r.NotFound(handler.NotFound())
	r.MethodNotAllowed(handler.MethodNotAllowed())

	errorHandler := handler.NewErrorHandler(d.log, handler.ErrorHandlerConfig{Development: dev})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", httpserver.HealthCheckHandler(d.log, "Template Store API is running"))
		r.Get("/health/ready", httpserver.HealthCheckHandler(d.log, "Template Store API is ready", d.readiness...))

		r.Mount("/auth", account.Router(account.RouterOptions{
			Password:    account.NewPasswordService(d.auth, errorHandler),
			Session:     account.NewSessionService(d.auth, errorHandler),
			GoogleOAuth: d.oauth,
		}))

		r.Mount("/", catalogmod.Router(catalogmod.RouterOptions{
			Templates: catalogmod.NewTemplateService(d.catalog, d.auth, errorHandler),
			Favorites: catalogmod.NewFavoriteService(d.catalog, d.auth, errorHandler),
			RateLimit: d.rateLimit,
		}))
	})

	return r
}
