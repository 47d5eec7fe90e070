// Package httpserver wraps net/http with graceful shutdown, timeouts from
// environment configuration, lifecycle hooks and JSON health checks.
//
// Run binds the listener first, so address errors surface immediately as
// ErrStart, then serves until the context is cancelled or SIGINT/SIGTERM is
// received. Stop hooks run after http.Server.Shutdown and are the place to
// close database clients.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(*slog.Logger) { _ = client.Disconnect(ctx) }),
//	)
//	r.Get("/api/health", httpserver.HealthCheckHandler(log, "Template Store API is running"))
//	r.Get("/api/health/ready", httpserver.HealthCheckHandler(log, "ready",
//		httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Config reads HTTP_ADDR, or PORT when HTTP_ADDR is empty.
package httpserver
