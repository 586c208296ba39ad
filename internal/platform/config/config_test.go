package config

import (
	"testing"
	"time"

	kit "postfilter/internal/platform/testkit"
)

func TestPrefixComposesKeys(t *testing.T) {
	api := New().Prefix("CORE_API_")
	if got := api.Prefix("FILTER_").Key("MAX_DEPTH"); got != "CORE_API_FILTER_MAX_DEPTH" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_PGSQL_")
	t.Setenv("SERVICE_PGSQL_DBURL", "  postgres://localhost/posts ")
	if got := c.MustString("DBURL"); got != "postgres://localhost/posts" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMayValues(t *testing.T) {
	c := New().Prefix("CORE_API_")
	t.Setenv("CORE_API_QUERY_LIMIT", " 250 ")
	t.Setenv("CORE_API_QUERY_LOG_SUBMISSIONS", "false")
	t.Setenv("CORE_API_PRESETS_MIGRATE_TIMEOUT", "3s")
	t.Setenv("CORE_API_OWNER_HEADER", "X-User")
	t.Setenv("CORE_API_BAD_INT", "many")
	t.Setenv("CORE_API_BAD_BOOL", "sometimes")
	t.Setenv("CORE_API_BAD_DUR", "soon")

	if got := c.MayInt("QUERY_LIMIT", 500); got != 250 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD_INT", 500); got != 500 {
		t.Fatalf("MayInt(bad) = %d", got)
	}
	if c.MayBool("QUERY_LOG_SUBMISSIONS", true) || !c.MayBool("BAD_BOOL", true) {
		t.Fatalf("MayBool mismatch")
	}
	if got := c.MayDuration("PRESETS_MIGRATE_TIMEOUT", time.Second); got != 3*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD_DUR", time.Second); got != time.Second {
		t.Fatalf("MayDuration(bad) = %v", got)
	}
	if got := c.MayString("OWNER_HEADER", "X-Owner-ID"); got != "X-User" {
		t.Fatalf("MayString = %q", got)
	}
	if got := c.MayString("MISSING", "X-Owner-ID"); got != "X-Owner-ID" {
		t.Fatalf("MayString default = %q", got)
	}
}

func TestMayIntIn(t *testing.T) {
	c := New().Prefix("CORE_API_FILTER_")
	t.Setenv("CORE_API_FILTER_MAX_DEPTH", "12")
	if got := c.MayIntIn("MAX_DEPTH", 8, 1, 32); got != 12 {
		t.Fatalf("in range = %d", got)
	}
	t.Setenv("CORE_API_FILTER_MAX_DEPTH", "0")
	if got := c.MayIntIn("MAX_DEPTH", 8, 1, 32); got != 8 {
		t.Fatalf("out of range = %d", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("CORE_API_QUERY_")
	if got := c.MayEnum("BACKEND", "postgres", "postgres", "clickhouse"); got != "postgres" {
		t.Fatalf("default = %q", got)
	}
	t.Setenv("CORE_API_QUERY_BACKEND", "ClickHouse")
	if got := c.MayEnum("BACKEND", "postgres", "postgres", "clickhouse"); got != "ClickHouse" {
		t.Fatalf("case-insensitive match = %q", got)
	}
	t.Setenv("CORE_API_QUERY_BACKEND", "mysql")
	kit.MustPanic(t, func() { _ = c.MayEnum("BACKEND", "postgres", "postgres", "clickhouse") })
}
