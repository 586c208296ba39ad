// Package module wires filter presets into the API using modkit
package module

import (
	"context"

	"postfilter/internal/core/filtertree"
	modkit "postfilter/internal/modkit"
	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/platform/logger"
	presetshttp "postfilter/internal/services/api/presets/http"
	presetsrepo "postfilter/internal/services/api/presets/repo"
	presetssvc "postfilter/internal/services/api/presets/service"
)

// Module serves /presets behind the owner auth port
type Module struct {
	*modkit.Base
	svc presetssvc.Service
}

// New constructs a presets module; routes are owner scoped through deps.Auth
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	defaults := []modkit.Option{modkit.WithName("presets"), modkit.WithPrefix("/presets")}
	if deps.Auth != nil {
		defaults = append(defaults, modkit.WithMiddlewares(httpkit.Auth(deps.Auth)))
	}
	b := modkit.Build(append(defaults, opts...)...)
	cfg := FromConfig(deps.Cfg)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	codec := injected.Codec
	if codec == nil {
		codec = filtertree.NewCodec(nil, 0)
	}

	svc := presetssvc.New(deps.PG, presetsrepo.NewPG(), codec)
	if cfg.AutoMigrate && deps.PG != nil {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.MigrateTimeout)
		if err := svc.EnsureSchema(ctx); err != nil {
			logger.Named("presets").Error().Err(err).Msg("ensure presets schema failed")
		}
		cancel()
	}

	m := &Module{svc: svc}
	m.Base = b.Base(svc, func(r httpkit.Router) { presetshttp.Register(r, m.svc) })
	return m
}
