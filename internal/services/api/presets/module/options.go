package module

import (
	"time"

	"postfilter/internal/core/filtertree"
	"postfilter/internal/platform/config"
)

// Options controls preset storage behavior
type Options struct {
	AutoMigrate    bool          // create filter_presets on startup
	MigrateTimeout time.Duration // bound for the startup DDL
}

// Ports are injected by the api mount; a nil Codec falls back to the defaults
type Ports struct {
	Codec *filtertree.Codec
}

// FromConfig reads PRESETS_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	pc := cfg.Prefix("PRESETS_")
	return Options{
		AutoMigrate:    pc.MayBool("AUTOMIGRATE", true),
		MigrateTimeout: pc.MayDuration("MIGRATE_TIMEOUT", 10*time.Second),
	}
}
