// Package module wires post queries into the API using modkit
package module

import (
	"context"

	"postfilter/internal/core/filtersql"
	modkit "postfilter/internal/modkit"
	"postfilter/internal/modkit/httpkit"
	"postfilter/internal/modkit/repokit"
	"postfilter/internal/platform/logger"
	postshttp "postfilter/internal/services/api/posts/http"
	postsrepo "postfilter/internal/services/api/posts/repo"
	postssvc "postfilter/internal/services/api/posts/service"
)

// Module serves /posts and offers the query service as Ports
type Module struct {
	*modkit.Base
	svc postssvc.Service
}

// New constructs the posts module
// the clickhouse backend and the submission log both fall back when deps.CH is nil
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("posts"), modkit.WithPrefix("/posts")}, opts...)...)
	cfg := FromConfig(deps.Cfg)
	log := logger.Named("posts")

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	dialect := filtersql.Postgres
	binder := postsrepo.NewPG()
	if cfg.Backend == "clickhouse" {
		if deps.CH != nil {
			dialect = filtersql.ClickHouse
			binder = postsrepo.NewCH(deps.CH)
		} else {
			log.Warn().Msg("query backend clickhouse requested without a clickhouse store; using postgres")
		}
	}

	var subs postsrepo.SubmissionLog
	if cfg.LogSubmissions && deps.CH != nil {
		subs = postsrepo.NewSubmissionLog(deps.CH)
	}

	if cfg.AutoMigrate {
		migrate(deps, cfg, dialect)
	}

	svc := postssvc.New(deps.PG, binder, postssvc.Options{
		Codec:        injected.Codec,
		Dialect:      dialect,
		DefaultLimit: cfg.Limit,
		Submissions:  subs,
	})

	m := &Module{svc: svc}
	m.Base = b.Base(svc, func(r httpkit.Router) { postshttp.Register(r, m.svc) })
	return m
}

func migrate(deps modkit.Deps, cfg Options, d filtersql.Dialect) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.MigrateTimeout)
	defer cancel()
	log := logger.Named("posts")
	if deps.PG != nil {
		if err := postsrepo.EnsureSchema(ctx, repokit.Queryer(deps.PG)); err != nil {
			log.Error().Err(err).Msg("ensure posts schema failed")
		}
	}
	if deps.CH != nil && (d == filtersql.ClickHouse || cfg.LogSubmissions) {
		if err := postsrepo.EnsureSchemaCH(ctx, deps.CH); err != nil {
			log.Error().Err(err).Msg("ensure clickhouse schema failed")
		}
	}
}
