// Package api provides the HTTP API for the application
package api

import (
	"postfilter/internal/platform/config"
	"postfilter/internal/platform/logger"
	phttp "postfilter/internal/platform/net/http"
	"postfilter/internal/platform/store"

	"postfilter/internal/modkit"
	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/modkit/module"
	"postfilter/internal/modkit/swaggerkit"

	filtersmod "postfilter/internal/services/api/filters/module"
	metamod "postfilter/internal/services/api/meta/module"
	postsmod "postfilter/internal/services/api/posts/module"
	presetsmod "postfilter/internal/services/api/presets/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	owners := httpkit.NewHeaderPort(opt.Config.MayString("OWNER_HEADER", httpkit.DefaultOwnerHeader))
	deps := modkit.Deps{
		Cfg:  opt.Config,
		PG:   opt.Store.PG,
		CH:   opt.Store.CH,
		Auth: owners,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// the filters module owns the codec every other module validates with
	filters := filtersmod.New(deps)
	fp := module.MustPortsOf[filtersmod.Ports](filters)

	mods := []module.Module{
		metamod.New(deps),
		filters,
		postsmod.New(deps, modkit.WithPorts(postsmod.Ports{Codec: fp.Codec})),
		presetsmod.New(deps, modkit.WithPorts(presetsmod.Ports{Codec: fp.Codec})),
	}

	// root middleware must be registered before any route
	r.Use(httpkit.RootStack()...)
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(owners.Header()), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
			logger.Named("api").Debug().Str("module", m.Name()).Msg("mounted")
		}
	})
}
