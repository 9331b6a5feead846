package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	dashboard "github.com/EZLFP/discord-bot-dashboard"
	"github.com/EZLFP/discord-bot-dashboard/config"
	"github.com/EZLFP/discord-bot-dashboard/internal/data"
	httpx "github.com/EZLFP/discord-bot-dashboard/internal/http"
	"github.com/EZLFP/discord-bot-dashboard/internal/observability/metrics"
	"github.com/EZLFP/discord-bot-dashboard/internal/service"
)

// analyticsCachePrefix namespaces analytics entries apart from sessions in a shared Redis.
const analyticsCachePrefix = "analytics:"

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Analytics *service.AnalyticsService
	Pages     httpx.PageRenderer
	Health    map[string]httpx.HealthCheck
	Metrics   MetricsContainer
}

// MetricsContainer groups the Prometheus registry and the collectors registered on it.
type MetricsContainer struct {
	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry
	HTTP     *metrics.HTTPMetrics
	Authz    *metrics.AuthzMetrics
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// NewServices builds every service the HTTP server needs.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps missing AppConfig")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	m := buildMetrics(cfg.Metrics)

	auth, err := BuildAuthService(AuthConfig{
		Auth:        cfg.Auth,
		Authz:       cfg.Authz,
		Session:     cfg.Session,
		RedisClient: deps.RedisClient,
		Metrics:     m.Authz,
		Logger:      logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	pages, err := buildPages(logger)
	if err != nil {
		return ServiceContainer{}, err
	}

	return ServiceContainer{
		Auth:      auth,
		Analytics: buildAnalytics(cfg.Analytics, deps.DB, deps.RedisClient, logger),
		Pages:     pages,
		Health:    buildHealthChecks(deps.DB, deps.RedisClient),
		Metrics:   m,
	}, nil
}

func buildMetrics(cfg config.MetricsConfig) MetricsContainer {
	if !cfg.Enabled {
		return MetricsContainer{}
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return MetricsContainer{
		Registry: reg,
		HTTP:     metrics.NewHTTPMetrics(reg),
		Authz:    metrics.NewAuthzMetrics(reg),
	}
}

func buildAnalytics(cfg config.AnalyticsConfig, db *sql.DB, client redis.UniversalClient, logger *slog.Logger) *service.AnalyticsService {
	opts := service.AnalyticsServiceOptions{
		Reader:       data.NewAnalyticsRepo(db),
		CacheTTL:     cfg.CacheTTL,
		QueryTimeout: cfg.QueryTimeout,
		Logger:       logger,
	}
	if cfg.CacheEnabled && client != nil {
		opts.Cache = data.NewRedisCacheRepo(client, analyticsCachePrefix)
	}
	return service.NewAnalyticsService(opts)
}

//nolint:ireturn // the router only needs the renderer interface.
func buildPages(logger *slog.Logger) (httpx.PageRenderer, error) {
	templates, err := fs.Sub(dashboard.TemplateFS, httpx.TemplatePathFromRoot)
	if err != nil {
		return nil, fmt.Errorf("open embedded templates: %w", err)
	}
	pages, err := httpx.NewTemplateRenderer(httpx.TemplateRendererConfig{
		TemplateFS: templates,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return pages, nil
}

func buildHealthChecks(db *sql.DB, client redis.UniversalClient) map[string]httpx.HealthCheck {
	checks := make(map[string]httpx.HealthCheck, 2)
	if db != nil {
		checks["postgres"] = db.PingContext
	}
	if client != nil {
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}
	return checks
}

// ServiceOrchestrationConfig groups what RunServicesWithShutdown needs.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and blocks until a shutdown signal
// is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	server, errCh := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		quit:    quit,
		errCh:   errCh,
		server:  server,
		timeout: cfg.Config.HTTP.ShutdownTimeout,
		logger:  logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	quit    <-chan os.Signal
	errCh   <-chan error
	server  *http.Server
	timeout time.Duration
	logger  *slog.Logger
}

// waitForShutdown waits for a shutdown signal or a server error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case sig := <-cfg.quit:
		cfg.logger.Info("shutting down", "signal", sig.String())
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  cfg.server,
			Timeout: cfg.timeout,
			Logger:  cfg.logger,
		})
	case err := <-cfg.errCh:
		cfg.logger.Error("HTTP server failed", "error", err)
		return err
	}
}
