package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

// DSN returns the test database URL. schema, when set, becomes the search_path.
func (e Env) DSN(schema string) string {
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(e.DBUser, e.DBPassword),
		Host:   net.JoinHostPort(e.DBHost, strconv.Itoa(e.DBPort)),
		Path:   "/" + e.DBName,
	}
	q := u.Query()
	q.Set("sslmode", e.DBSSLMode)
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SetupSchemaDB applies ddl inside a throwaway schema and returns a pool scoped to it.
// The bot owns the real schema, so tests bring a fixture of the tables they read.
// The schema is dropped on cleanup.
func SetupSchemaDB(t TB, ddl string) *sql.DB {
	t.Helper()
	e := LoadEnv(t)
	required := e.RequireDB || e.RequireInfra

	admin, err := openPinged(e.DSN(""), 2*time.Second)
	if err != nil {
		unavailable(t, required, "test database not available: %v", err)
		return nil
	}

	schema := schemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeAndLog(t, "admin DB", admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := openPinged(e.DSN(schema), 5*time.Second)
	if err != nil {
		closeAndLog(t, "admin DB", admin)
		t.Fatalf("open schema-scoped DB: %v", err)
	}
	db.SetMaxOpenConns(5)

	t.Logf("using ephemeral schema %s", schema)
	t.Cleanup(func() {
		closeAndLog(t, "schema DB", db)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: failed to drop schema %s: %v", schema, err)
		}
		closeAndLog(t, "admin DB", admin)
	})

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		t.Fatalf("apply fixture schema: %v", err)
	}
	return db
}

func openPinged(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// schemaName is a lowercase identifier safe to splice into DDL.
func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("t_%d", time.Now().UnixNano())
	}
	return "t_" + hex.EncodeToString(b)
}
