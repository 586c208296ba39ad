package module

import (
	"postfilter/internal/core/filtertree"
	"postfilter/internal/platform/config"
)

// Options controls the shared filter model
type Options struct {
	MaxDepth int // group levels including the root
}

// Ports exposes the codec and editor other modules validate with
type Ports struct {
	Codec  *filtertree.Codec
	Editor *filtertree.Editor
}

// FromConfig reads FILTER_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	fc := cfg.Prefix("FILTER_")
	return Options{MaxDepth: fc.MayIntIn("MAX_DEPTH", filtertree.DefaultMaxDepth, 1, 64)}
}
