package config

import "time"

// HTTPConfig configures the listener, cookies and request limits.
type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`
	// CookieDomain scopes all dashboard cookies. Empty means host-only.
	CookieDomain string `env:"APP_COOKIE_DOMAIN"`

	// Gzip for HTML and JSON responses; the level is clamped to 1..9.
	CompressionEnabled bool `env:"HTTP_COMPRESSION_ENABLED" envDefault:"false"`
	CompressionLevel   int  `env:"HTTP_COMPRESSION_LEVEL"   envDefault:"6"`

	// LoginRateLimit caps /auth/login and /auth/callback requests per client IP per window.
	LoginRateLimit  int           `env:"HTTP_LOGIN_RATE_LIMIT"  envDefault:"10"`
	LoginRateWindow time.Duration `env:"HTTP_LOGIN_RATE_WINDOW" envDefault:"1m"`

	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.CompressionLevel = min(max(h.CompressionLevel, 1), 9)
	if h.LoginRateLimit < 1 {
		h.LoginRateLimit = 10
	}
	h.LoginRateWindow = clampDuration(h.LoginRateWindow, time.Minute)
	h.ShutdownTimeout = clampDuration(h.ShutdownTimeout, 15*time.Second)
}
