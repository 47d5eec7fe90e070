package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrymomot/tmplstore/handler"
	"github.com/dmitrymomot/tmplstore/modules/account"
	"github.com/dmitrymomot/tmplstore/pkg/auth"
	"github.com/dmitrymomot/tmplstore/pkg/clientip"
	"github.com/dmitrymomot/tmplstore/pkg/config"
	"github.com/dmitrymomot/tmplstore/pkg/cookie"
	"github.com/dmitrymomot/tmplstore/pkg/environment"
	"github.com/dmitrymomot/tmplstore/pkg/httpserver"
	"github.com/dmitrymomot/tmplstore/pkg/logger"
	"github.com/dmitrymomot/tmplstore/pkg/mongo"
	"github.com/dmitrymomot/tmplstore/pkg/opensearch"
	"github.com/dmitrymomot/tmplstore/pkg/ratelimiter"
	"github.com/dmitrymomot/tmplstore/pkg/redis"
	"github.com/dmitrymomot/tmplstore/pkg/requestid"
	"github.com/dmitrymomot/tmplstore/svc/catalog"
	"github.com/dmitrymomot/tmplstore/svc/mongostore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "tmplstore-api: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var (
		appCfg    appConfig
		serverCfg httpserver.Config
		mongoCfg  mongo.Config
		redisCfg  redis.Config
		authCfg   auth.Config
		googleCfg auth.GoogleOAuthConfig
		cookieCfg cookie.Config
		limitCfg  ratelimiter.Config
	)
	if err := errors.Join(
		config.Load(&appCfg),
		config.Load(&serverCfg),
		config.Load(&mongoCfg),
		config.Load(&redisCfg),
		config.Load(&authCfg),
		config.Load(&googleCfg),
		config.Load(&cookieCfg),
		config.Load(&limitCfg),
	); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	env := appCfg.environment()
	log := logger.New(
		logger.WithEnvironment(env, appCfg.ServiceName),
		logger.WithContextExtractors(
			requestid.LoggerExtractor(),
			clientip.LoggerExtractor(),
			environment.LoggerExtractor(),
		),
	)
	logger.SetAsDefault(log)

	mongoClient, err := mongo.New(ctx, mongoCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	db := mongoClient.Database(mongoCfg.DatabaseName())
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}
	log.InfoContext(ctx, "database connected", slog.String("database", db.Name()))

	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	readiness := []httpserver.Check{
		{Name: "mongodb", Fn: mongo.Healthcheck(mongoClient)},
		{Name: "redis", Fn: redis.Healthcheck(redisClient)},
	}

	registry := redis.NewTokenRegistry(redisClient, redis.WithScanBatchSize(redisCfg.ScanBatchSize))
	tokens, err := auth.NewTokenService(authCfg.TokenConfig, registry, auth.WithTokenLogger(log))
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}
	authSvc := auth.NewService(mongostore.NewUsers(db), auth.NewArgon2Hasher(), tokens, authCfg, auth.WithLogger(log))

	templates := mongostore.NewTemplates(db)
	catalogOpts := []catalog.Option{catalog.WithLogger(log)}
	switch appCfg.SearchBackend {
	case searchBackendOpenSearch:
		var osCfg opensearch.Config
		if err := config.Load(&osCfg); err != nil {
			return fmt.Errorf("failed to load opensearch configuration: %w", err)
		}
		osClient, err := opensearch.New(ctx, osCfg)
		if err != nil {
			return fmt.Errorf("failed to connect to opensearch: %w", err)
		}
		index := catalog.NewOpenSearchIndex(osClient, osCfg.Index)
		if err := index.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("failed to ensure search index: %w", err)
		}
		catalogOpts = append(catalogOpts, catalog.WithSearchIndex(index))
		readiness = append(readiness, httpserver.Check{Name: "opensearch", Fn: opensearch.Healthcheck(osClient)})
	case searchBackendMongo, "":
	default:
		return fmt.Errorf("unknown search backend %q", appCfg.SearchBackend)
	}
	catalogSvc := catalog.NewService(templates, mongostore.NewFavorites(db), catalogOpts...)

	var oauth account.Mountable
	if googleCfg.Enabled() {
		cookies, err := cookie.NewFromConfig(cookieCfg, appCfg.stateSecret(authCfg.Secret))
		if err != nil {
			return fmt.Errorf("failed to create cookie manager: %w", err)
		}
		oauth = account.NewOAuthService(authSvc, auth.NewGoogleProvider(googleCfg), cookies, account.OAuthConfig{
			StateSecret: appCfg.stateSecret(authCfg.Secret),
			StateTTL:    googleCfg.StateTTL,
			ClientURL:   appCfg.ClientURL,
		}, handler.NewErrorHandler(log, handler.ErrorHandlerConfig{Development: env.IsDevelopment()}))
		log.InfoContext(ctx, "google sign-in enabled")
	}

	var rateLimit func(http.Handler) http.Handler
	if appCfg.RateLimitEnabled {
		limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(redisClient), limitCfg)
		if err != nil {
			return fmt.Errorf("failed to create rate limiter: %w", err)
		}
		rateLimit = ratelimiter.Middleware(limiter, ratelimiter.ByIP,
			ratelimiter.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request, _ *ratelimiter.Result) {
				_ = handler.WriteError(w, handler.ErrTooManyRequests)
			}),
			ratelimiter.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
				log.ErrorContext(r.Context(), "rate limiter unavailable", logger.Error(err))
				_ = handler.WriteError(w, handler.ErrServiceUnavailable.Wrap(err))
			}),
		)
	}

	router := newRouter(routerDeps{
		cfg:       appCfg,
		log:       log,
		auth:      authSvc,
		catalog:   catalogSvc,
		oauth:     oauth,
		rateLimit: rateLimit,
		readiness: readiness,
	})

	server := httpserver.NewFromConfig(serverCfg,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(func(addr string, log *slog.Logger) {
			log.Info("Template Store API is running",
				slog.String("addr", addr),
				slog.String("env", env.String()),
				slog.String("search_backend", appCfg.SearchBackend),
			)
		}),
		httpserver.WithStopHook(func(log *slog.Logger) {
			if err := mongoClient.Disconnect(context.Background()); err != nil {
				log.Error("failed to disconnect mongodb", logger.Error(err))
			}
			if err := redisClient.Close(); err != nil {
				log.Error("failed to close redis", logger.Error(err))
			}
		}),
	)

	return server.Run(ctx, router)
}
