// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the configured
// Format and wraps it with LogHandlerDecorator, which runs every registered
// ContextExtractor before delegating to the underlying handler. That is how
// request ids and the environment end up on records logged deep inside the
// auth and catalog services without being passed around explicitly.
//
// Helper constructors such as Error, IdentityID and Component live in attr.go
// and keep attribute naming consistent across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "tmplstore-api"),
//	    logger.WithContextExtractors(
//	        requestid.LoggerExtractor(),
//	        environment.LoggerExtractor(),
//	    ),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "identity registered",
//	    logger.IdentityID(id),
//	    logger.Component("auth"),
//	)
//
// HTTPMiddleware produces one access log record per request with method,
// path, status, response size and duration.
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error value is
// non-nil, allowing calls like
//
//	log.Info("operation finished", logger.Error(err))
//
// without an additional nil check.
package logger
