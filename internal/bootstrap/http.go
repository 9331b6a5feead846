package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/EZLFP/discord-bot-dashboard/config"
	httpx "github.com/EZLFP/discord-bot-dashboard/internal/http"
)

const defaultShutdownTimeout = 15 * time.Second

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// The returned channel receives the error if the server stops for any reason other than Shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, <-chan error) {
	errCh := make(chan error, 1)
	if cfg == nil {
		close(errCh)
		return nil, errCh
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	handler := httpx.NewRouter(buildRouterServices(appCfg, cfg.Services, logger))

	server := &http.Server{
		Addr:              listenAddr(appCfg.HTTP.Addr),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	return server, errCh
}

func buildRouterServices(cfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) httpx.RouterServices {
	rs := httpx.RouterServices{
		Auth:            svcs.Auth,
		Analytics:       svcs.Analytics,
		Pages:           svcs.Pages,
		CookieDomain:    cfg.HTTP.CookieDomain,
		HealthChecks:    svcs.Health,
		HTTPMetrics:     svcs.Metrics.HTTP,
		LoginRateLimit:  cfg.HTTP.LoginRateLimit,
		LoginRateWindow: cfg.HTTP.LoginRateWindow,
		Logger:          logger,
	}
	// A nil *Registry must not become a non-nil Gatherer.
	if svcs.Metrics.Registry != nil {
		rs.Gatherer = svcs.Metrics.Registry
	}
	if cfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", cfg.HTTP.CompressionLevel)
		rs.Compression = &httpx.CompressionConfig{Level: cfg.HTTP.CompressionLevel, Logger: logger}
	}
	return rs
}

// Guard against empty addr to avoid listening on Go default.
func listenAddr(addr string) string {
	if addr == "" {
		return ":8080"
	}
	return addr
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	// Timeout defaults to 15s.
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server, letting in-flight requests finish.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server", "timeout", timeout)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
