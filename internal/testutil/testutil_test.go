package testutil

import (
	"net/url"
	"testing"
)

func TestLoadEnv_Defaults(t *testing.T) {
	for _, k := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_REDIS_ADDR", "TEST_REDIS_DB", "TEST_REQUIRE_INFRA"} {
		t.Setenv(k, "")
	}

	e := LoadEnv(t)
	if e.DBHost != "localhost" || e.DBPort != 55432 {
		t.Fatalf("unexpected db defaults: %s:%d", e.DBHost, e.DBPort)
	}
	if len(e.RedisAddrs) != 3 || e.RedisAddrs[0] != "localhost:6379" {
		t.Fatalf("unexpected redis candidates: %v", e.RedisAddrs)
	}
	if e.RedisDB != -1 {
		t.Fatalf("RedisDB = %d, want auto-select", e.RedisDB)
	}
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "postgres")
	t.Setenv("TEST_DB_PORT", "5432")
	t.Setenv("TEST_REDIS_ADDR", "redis:6379")
	t.Setenv("TEST_REDIS_DB", "4")
	t.Setenv("TEST_REQUIRE_INFRA", "true")

	e := LoadEnv(t)
	if e.DBHost != "postgres" || e.DBPort != 5432 {
		t.Fatalf("unexpected db config: %s:%d", e.DBHost, e.DBPort)
	}
	if len(e.RedisAddrs) != 1 || e.RedisAddrs[0] != "redis:6379" || e.RedisDB != 4 {
		t.Fatalf("unexpected redis config: %v db=%d", e.RedisAddrs, e.RedisDB)
	}
	if !e.RequireInfra {
		t.Fatal("expected RequireInfra")
	}
}

func TestEnv_DSN(t *testing.T) {
	e := Env{DBHost: "db", DBPort: 5432, DBUser: "u", DBPassword: "p@ss", DBName: "bot", DBSSLMode: "disable"}

	u, err := url.Parse(e.DSN("t_abcd"))
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	if pw, _ := u.User.Password(); pw != "p@ss" {
		t.Fatalf("password not preserved: %q", pw)
	}
	if got := u.Query().Get("search_path"); got != "t_abcd,public" {
		t.Fatalf("search_path = %q", got)
	}
	plain, err := url.Parse(e.DSN(""))
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	if plain.Query().Has("search_path") {
		t.Fatal("search_path set without a schema")
	}
}
