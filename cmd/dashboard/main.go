// Command dashboard serves the bot's analytics dashboard.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"github.com/EZLFP/discord-bot-dashboard/config"
	"github.com/EZLFP/discord-bot-dashboard/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger(os.Getenv("DEV") == "true")
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "dashboard exited", "error", err)
		os.Exit(1) //nolint:forbidigo // non-zero exit on fatal errors
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "starting discord bot dashboard",
		"addr", cfg.HTTP.Addr,
		"auth_mode", cfg.Auth.Mode,
		"session_store", cfg.Session.Store,
		"authz_enforced", cfg.Authz.Enforced(),
		"analytics_cache", cfg.Analytics.CacheEnabled,
		"dev", cfg.IsDev,
	)

	infra, err := connect(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	defer infra.close(ctx, logger)

	services, err := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config:      &cfg,
		DB:          infra.db,
		RedisClient: infra.redis,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	return bootstrap.RunServicesWithShutdown(&bootstrap.ServiceOrchestrationConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})
}

// infrastructure holds the connections the process owns.
type infrastructure struct {
	db    *sql.DB
	redis *redis.Client
}

func connect(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*infrastructure, error) {
	dbCfg := bootstrap.DatabaseConfig{DBConfig: cfg.Postgres, RedisConfig: cfg.Redis, Logger: logger}

	db, err := bootstrap.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	client, err := bootstrap.ConnectRedis(ctx, dbCfg)
	if err != nil {
		err = fmt.Errorf("connect redis: %w", err)
		if cerr := db.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close database: %w", cerr))
		}
		return nil, err
	}
	return &infrastructure{db: db, redis: client}, nil
}

func (i *infrastructure) close(ctx context.Context, logger *slog.Logger) {
	if err := i.redis.Close(); err != nil {
		logger.ErrorContext(ctx, "close redis failed", "error", err)
	}
	if err := i.db.Close(); err != nil {
		logger.ErrorContext(ctx, "close database failed", "error", err)
	}
}
