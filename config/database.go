package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DBConfig contains PostgreSQL settings for the bot's database. The dashboard only reads it.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"ezlfp"`
	Password string `env:"PASSWORD" envDefault:"ezlfp"`
	Name     string `env:"NAME"     envDefault:"ezlfp"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// URL overrides the discrete fields when set, e.g. DATABASE_URL from a hosting platform.
	URL string `env:"URL"`
}

// DSN returns the connection URL. URL wins over the discrete fields.
func (c DBConfig) DSN() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

// RedisConfig contains Redis configuration for sessions and the analytics cache.
type RedisConfig struct {
	Addr     string `env:"ADDR"     envDefault:"localhost:6379"`
	Password string `env:"PASSWORD" envDefault:""`
	DB       int    `env:"DB"       envDefault:"0"`
}

// AnalyticsConfig controls the analytics response cache.
type AnalyticsConfig struct {
	// CacheEnabled caches analytics results in Redis for CacheTTL.
	CacheEnabled bool          `env:"ANALYTICS_CACHE_ENABLED" envDefault:"true"`
	CacheTTL     time.Duration `env:"ANALYTICS_CACHE_TTL"     envDefault:"60s"`
	// QueryTimeout bounds each analytics request.
	QueryTimeout time.Duration `env:"ANALYTICS_QUERY_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to analytics settings.
func (c *AnalyticsConfig) Sanitize() {
	c.CacheTTL = clampDuration(c.CacheTTL, 60*time.Second)
	c.QueryTimeout = clampDuration(c.QueryTimeout, 10*time.Second)
}
