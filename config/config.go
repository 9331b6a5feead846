package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: sign-in, authorization gate and sessions
//   - database.go: Postgres, Redis and the analytics cache
//   - http.go: HTTP server configuration
type AppConfig struct {
	// IsDev controls development mode behavior.
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	Auth    AuthConfig
	Authz   AuthzConfig
	Session SessionConfig

	Postgres  DBConfig    `envPrefix:"DB_"`
	Redis     RedisConfig `envPrefix:"REDIS_"`
	Analytics AnalyticsConfig

	HTTP    HTTPConfig
	Metrics MetricsConfig
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Authz.Sanitize()
	c.Session.Sanitize()
	c.Analytics.Sanitize()
	c.detectDevMode()
}

// detectDevMode checks NODE_ENV as a fallback for DEV.
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// Validate reports settings that cannot produce a working server. Call it after Sanitize.
func (c *AppConfig) Validate() error {
	var errs []error
	if c.Auth.Mode == AuthModeOAuth {
		if c.Auth.Discord.ClientID == "" {
			errs = append(errs, errors.New("AUTH_DISCORD_ID is required when AUTH_MODE=oauth"))
		}
		if c.Auth.Discord.ClientSecret == "" {
			errs = append(errs, errors.New("AUTH_DISCORD_SECRET is required when AUTH_MODE=oauth"))
		}
	}
	if c.Auth.Mode == AuthModeMock && !c.IsDev {
		errs = append(errs, errors.New("AUTH_MODE=mock is only allowed with DEV=true"))
	}
	if c.Session.Store == SessionStoreJWT && len(c.Session.Secret) < MinSessionSecretLen {
		errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes when SESSION_STORE=jwt", MinSessionSecretLen))
	}
	return errors.Join(errs...)
}

// clampDuration returns def when d is not positive.
func clampDuration(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
