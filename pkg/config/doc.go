// Package config loads typed application configuration from environment
// variables.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
//
//   - LoadEnv reads dotenv files without overriding variables that are
//     already set. By default it tries ".env.<APP_ENV>" and then ".env".
//   - Load parses the environment into any struct annotated with `env` tags
//     and caches the result per type, so each struct is parsed once.
//   - MustLoad panics on failure, for configuration the process cannot start
//     without.
//   - ResetCache clears the cache, which is handy in tests.
//
// # Usage
//
//	type RedisConfig struct {
//	    URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
//	}
//
//	var cfg RedisConfig
//	config.MustLoad(&cfg)
//
// A failed parse is not cached; fixing the environment and calling Load again
// retries the parse.
package config
