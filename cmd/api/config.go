package main

import (
	"slices"

	"github.com/dmitrymomot/tmplstore/pkg/environment"
)

const (
	searchBackendMongo      = "mongo"
	searchBackendOpenSearch = "opensearch"
)

type appConfig struct {
	Env         string `env:"APP_ENV"`
	NodeEnv     string `env:"NODE_ENV"` // honoured when APP_ENV is unset
	ServiceName string `env:"SERVICE_NAME" envDefault:"tmplstore-api"`

	// ClientURL is the SPA that receives the browser after OAuth sign-in.
	ClientURL      string   `env:"CLIENT_URL"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	AllowedOrigin  string   `env:"ALLOWED_ORIGIN"`
	SessionSecret  string   `env:"SESSION_SECRET"` // signs the OAuth state when COOKIE_SECRETS is unset

	SearchBackend    string `env:"SEARCH_BACKEND" envDefault:"mongo"`
	BodyLimit        int64  `env:"HTTP_BODY_LIMIT" envDefault:"10485760"`
	RateLimitEnabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
}

func (c appConfig) environment() environment.Environment {
	if c.Env != "" {
		return environment.Parse(c.Env)
	}
	return environment.Parse(c.NodeEnv)
}

// origins resolves the CORS allow list, falling back to the client URL.
func (c appConfig) origins() []string {
	switch {
	case len(c.AllowedOrigins) > 0:
		return c.AllowedOrigins
	case c.AllowedOrigin != "":
		return []string{c.AllowedOrigin}
	case c.ClientURL != "":
		return []string{c.ClientURL}
	default:
		return []string{"*"}
	}
}

// allowCredentials is false whenever the origin list contains "*".
func (c appConfig) allowCredentials() bool {
	return !slices.Contains(c.origins(), "*")
}

func (c appConfig) stateSecret(jwtSecret string) string {
	if c.SessionSecret != "" {
		return c.SessionSecret
	}
	return jwtSecret
}
