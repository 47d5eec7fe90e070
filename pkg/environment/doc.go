// Package environment propagates the application environment (development,
// staging, production) through context.Context, HTTP requests and logs.
//
// Parse turns the raw APP_ENV value into an Environment. Middleware stores it
// on every request context so downstream code can call IsDevelopment(ctx)
// without explicit parameter passing. The error handler uses that to decide
// whether internal error details go into the response body.
//
//	env := environment.Parse(os.Getenv("APP_ENV"))
//	r.Use(environment.Middleware(env))
//
// LoggerExtractor plugs into logger.WithContextExtractors and adds an "env"
// attribute to every record logged with a request context.
package environment
