package modkit

import (
	"net/http"

	"postfilter/internal/modkit/httpkit"
)

// Built is the resolved option set a module constructor reads
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler

	// Ports holds what WithPorts injected, not what the module offers
	Ports any
}

// Build applies opts in order; later options win
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Base turns the option set into a mountable module offering ports
func (b Built) Base(ports any, register func(httpkit.Router)) *Base {
	return &Base{
		name:     b.Name,
		prefix:   b.Prefix,
		mws:      b.Mw,
		ports:    ports,
		register: register,
	}
}
