// Package config reads service settings from prefixed environment variables
// Must* panics on a missing value; May* logs bad input and keeps the default
package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"postfilter/internal/platform/config/raw"
	"postfilter/internal/platform/logger"
)

// Conf is a prefixed view, e.g. New().Prefix("CORE_API_")
type Conf struct{ raw.Conf }

// New returns the unprefixed view
func New() Conf { return Conf{raw.New()} }

// Prefix nests p under the current prefix
func (c Conf) Prefix(p string) Conf { return Conf{c.Conf.Prefix(p)} }

func (c Conf) invalid(k, v string) *zerolog.Event {
	return logger.Named("config").Warn().Str("key", c.Key(k)).Str("value", v)
}

// MustString panics when k is unset
func (c Conf) MustString(k string) string {
	v, ok := c.Lookup(k)
	if !ok {
		logger.Named("config").Panic().Str("key", c.Key(k)).Msg("missing required env")
	}
	return v
}

// MayString returns the value or def
func (c Conf) MayString(k, def string) string { return c.Get(k, def) }

// MayInt returns def when k is unset or not an integer
func (c Conf) MayInt(k string, def int) int {
	v, ok := c.Lookup(k)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.invalid(k, v).Int("default", def).Msg("not an integer, using default")
		return def
	}
	return n
}

// MayIntIn is MayInt bounded to lo..hi; out of range falls back to def
func (c Conf) MayIntIn(k string, def, lo, hi int) int {
	n := c.MayInt(k, def)
	if n < lo || n > hi {
		logger.Named("config").Warn().Str("key", c.Key(k)).Int("value", n).
			Int("min", lo).Int("max", hi).Int("default", def).Msg("out of range, using default")
		return def
	}
	return n
}

// MayBool returns def when k is unset or not a bool
func (c Conf) MayBool(k string, def bool) bool {
	v, ok := c.Lookup(k)
	if !ok {
		return def
	}
	b, err := raw.ParseBool(v)
	if err != nil {
		c.invalid(k, v).Bool("default", def).Msg("not a bool, using default")
		return def
	}
	return b
}

// MayDuration returns def when k is unset or not a duration
func (c Conf) MayDuration(k string, def time.Duration) time.Duration {
	v, ok := c.Lookup(k)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		c.invalid(k, v).Dur("default", def).Msg("not a duration, using default")
		return def
	}
	return d
}

// MayEnum returns def when unset and panics on a value outside allowed
// matching ignores case; the value is returned as written
func (c Conf) MayEnum(k, def string, allowed ...string) string {
	v := c.Get(k, def)
	if v == "" {
		return v
	}
	for _, a := range allowed {
		if strings.EqualFold(v, a) {
			return v
		}
	}
	logger.Named("config").Panic().Str("key", c.Key(k)).Str("value", v).Strs("allowed", allowed).Msg("invalid enum value")
	return ""
}
