// Package modkit assembles API modules from shared deps and options
package modkit

import (
	"net/http"

	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/modkit/module"
	str "postfilter/internal/platform/strings"
)

// Module is the surface the API mounts
type Module = module.Module

// Base implements Module for a module that owns one route prefix
// embed it and let the module add its own fields
type Base struct {
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	ports    any
	register func(httpkit.Router)
}

var _ Module = (*Base)(nil)

// MountRoutes mounts the module's middleware and routes under its prefix
func (b *Base) MountRoutes(r httpkit.Router) {
	r.Route(b.Prefix(), func(rr httpkit.Router) {
		if len(b.mws) > 0 {
			rr.Use(b.mws...)
		}
		if b.register != nil {
			b.register(rr)
		}
	})
}

// Name returns the module name; an unnamed module is a wiring bug
func (b *Base) Name() string { return str.MustString(b.name, "module name") }

// Prefix returns the route prefix
func (b *Base) Prefix() string { return str.MustPrefix(b.prefix) }

// Ports returns what the module offers other modules
func (b *Base) Ports() any { return b.ports }
