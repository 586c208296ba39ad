package modkit

import (
	"postfilter/internal/modkit/repokit"
	"postfilter/internal/platform/config"
	"postfilter/internal/platform/logger"
	"postfilter/internal/platform/net/middleware"
	"postfilter/internal/platform/store"
)

// Deps holds what every module constructor receives
// PG and CH may be nil in tests; modules nil check optional stores
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse

	// Auth resolves the calling owner on owner scoped routes; nil leaves routes open
	Auth middleware.AuthPort
}
