package mongo

import (
	"net/url"
	"strings"
	"time"
)

// DefaultDatabase is used when neither MONGODB_DATABASE nor the URL path names one.
const DefaultDatabase = "template-store"

type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL"`
	LegacyURL       string        `env:"MONGO_URI"` // honoured when MONGODB_URL is unset
	Database        string        `env:"MONGODB_DATABASE"`
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	RetryWrites     bool          `env:"MONGODB_RETRY_WRITES" envDefault:"true"`
	RetryReads      bool          `env:"MONGODB_RETRY_READS" envDefault:"true"`
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// URL returns the effective connection string.
func (c Config) URL() string {
	if c.ConnectionURL != "" {
		return c.ConnectionURL
	}
	return c.LegacyURL
}

// DatabaseName resolves the database: explicit setting first, then the path
// of the connection string ("mongodb://host/template-store"), then DefaultDatabase.
func (c Config) DatabaseName() string {
	if c.Database != "" {
		return c.Database
	}
	if u, err := url.Parse(c.URL()); err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return DefaultDatabase
}
