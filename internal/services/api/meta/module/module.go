// Package module wires health, readiness and build info under /meta
package module

import (
	"time"

	modkit "postfilter/internal/modkit"
	"postfilter/internal/modkit/httpkit"
	metahttp "postfilter/internal/services/api/meta/http"
)

// ServiceName is reported by /meta/health and /meta/service
const ServiceName = "postfilter-api"

// New constructs the meta module; uptime counts from this call
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)...)
	d := metahttp.Deps{
		ServiceName: ServiceName,
		StartedAt:   time.Now(),
		PG:          deps.PG,
		CH:          deps.CH,
	}
	return b.Base(nil, func(r httpkit.Router) { metahttp.Register(r, d) })
}
