// Package testutil provides database and Redis helpers for the dashboard's tests.
//
// Infrastructure-backed tests skip when Postgres or Redis is unreachable, unless
// TEST_REQUIRE_DB, TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA asks for a hard failure.
package testutil

import (
	"time"

	env "github.com/caarlos0/env/v11"
)

// TB covers *testing.T and *testing.B.
type TB interface {
	Helper()
	Skipf(format string, args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// Env describes where test infrastructure lives.
type Env struct {
	DBHost     string `env:"TEST_DB_HOST"     envDefault:"localhost"`
	DBPort     int    `env:"TEST_DB_PORT"     envDefault:"55432"`
	DBUser     string `env:"TEST_DB_USER"     envDefault:"ezlfp"`
	DBPassword string `env:"TEST_DB_PASSWORD" envDefault:"ezlfp"`
	DBName     string `env:"TEST_DB_NAME"     envDefault:"ezlfp"`
	DBSSLMode  string `env:"DB_SSL_MODE"      envDefault:"disable"`

	// RedisAddrs are tried in order; the first that answers wins.
	RedisAddrs []string `env:"TEST_REDIS_ADDR" envDefault:"localhost:6379,redis:6379,localhost:56379" envSeparator:","`
	// RedisDB pins the logical database. -1 reserves a free one in 1..15.
	RedisDB int `env:"TEST_REDIS_DB" envDefault:"-1"`

	RequireDB    bool `env:"TEST_REQUIRE_DB"`
	RequireRedis bool `env:"TEST_REQUIRE_REDIS"`
	RequireInfra bool `env:"TEST_REQUIRE_INFRA"`
}

// LoadEnv reads Env from the process environment.
func LoadEnv(t TB) Env {
	t.Helper()
	var e Env
	if err := env.Parse(&e); err != nil {
		t.Fatalf("parse test environment: %v", err)
	}
	return e
}

// unavailable skips the test, or fails it when the dependency is required.
func unavailable(t TB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

type closer interface{ Close() error }

func closeAndLog(t TB, name string, c closer) {
	if err := c.Close(); err != nil {
		t.Logf("warning: failed to close %s: %v", name, err)
	}
}

// TestTime is the instant fixtures are anchored to.
func TestTime() time.Time {
	return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
}
