// Package module wires the filter builder into the API and owns the shared codec
package module

import (
	"postfilter/internal/core/filtertree"
	modkit "postfilter/internal/modkit"
	"postfilter/internal/modkit/httpkit"
	filtershttp "postfilter/internal/services/api/filters/http"
	filterssvc "postfilter/internal/services/api/filters/service"
)

// Module serves /filters and offers its codec and editor as Ports
type Module struct {
	*modkit.Base
	svc *filterssvc.Svc
}

// New constructs the filters module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("filters"), modkit.WithPrefix("/filters")}, opts...)...)
	cfg := FromConfig(deps.Cfg)

	m := &Module{svc: filterssvc.New(filtertree.NewCodec(nil, cfg.MaxDepth))}
	m.Base = b.Base(
		Ports{Codec: m.svc.Codec(), Editor: m.svc.Editor()},
		func(r httpkit.Router) { filtershttp.Register(r, m.svc) },
	)
	return m
}
