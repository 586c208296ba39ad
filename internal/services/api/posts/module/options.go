package module

import (
	"strings"
	"time"

	"postfilter/internal/core/filtertree"
	"postfilter/internal/platform/config"
)

// Options controls where submissions are answered
type Options struct {
	Backend        string // postgres or clickhouse
	Limit          int
	LogSubmissions bool // needs clickhouse
	AutoMigrate    bool
	MigrateTimeout time.Duration
}

// Ports are injected by the api mount; a nil Codec falls back to the defaults
type Ports struct {
	Codec *filtertree.Codec
}

// FromConfig reads QUERY_* and POSTS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	qc := cfg.Prefix("QUERY_")
	pc := cfg.Prefix("POSTS_")
	return Options{
		Backend:        strings.ToLower(qc.MayEnum("BACKEND", "postgres", "postgres", "clickhouse")),
		Limit:          qc.MayIntIn("LIMIT", 500, 1, 1000),
		LogSubmissions: qc.MayBool("LOG_SUBMISSIONS", true),
		AutoMigrate:    pc.MayBool("AUTOMIGRATE", false),
		MigrateTimeout: pc.MayDuration("MIGRATE_TIMEOUT", 10*time.Second),
	}
}
