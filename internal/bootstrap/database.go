package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/EZLFP/discord-bot-dashboard/config"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// verify pings a freshly opened handle and closes it when the ping fails,
// so callers only ever receive live connections.
func verify(ctx context.Context, name string, h io.Closer, ping func(context.Context) error) error {
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	err := ping(pingCtx)
	if err == nil {
		return nil
	}
	if cerr := h.Close(); cerr != nil {
		err = errors.Join(err, fmt.Errorf("close %s: %w", name, cerr))
	}
	return fmt.Errorf("ping %s: %w", name, err)
}

// ConnectDB opens the bot's PostgreSQL database. The pool is sized for a read-only dashboard.
func ConnectDB(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.DBConfig.DSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := verify(ctx, "database", db, db.PingContext); err != nil {
		return nil, err
	}
	connLogger(cfg).InfoContext(ctx, "database connected", "dsn", redactDSN(dsn))
	return db, nil
}

// ConnectRedis opens the Redis client shared by sessions and the analytics cache.
func ConnectRedis(ctx context.Context, cfg DatabaseConfig) (*redis.Client, error) {
	rc := cfg.RedisConfig
	client := redis.NewClient(&redis.Options{Addr: rc.Addr, Password: rc.Password, DB: rc.DB})

	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := verify(ctx, "redis", client, ping); err != nil {
		return nil, err
	}
	connLogger(cfg).InfoContext(ctx, "redis connected", "addr", rc.Addr, "db", rc.DB)
	return client, nil
}

func connLogger(cfg DatabaseConfig) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}

// redactDSN keeps host and database name only.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Host == "" {
		return "postgres"
	}
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}).String()
}
