// @title         Postfilter API
// @version       0.1.0
// @description   Build, validate, save and run recursive post filters

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"postfilter/internal/platform/config"
	"postfilter/internal/platform/logger"
	phttp "postfilter/internal/platform/net/http"
	"postfilter/internal/platform/store"

	"postfilter/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	logger.Init(logger.FromEnv())
	l := logger.Named("main")

	chOn := chCfg.MayBool("ENABLED", false)
	chURL := ""
	if chOn {
		chURL = chCfg.MustString("DBURL")
	}

	// postgres holds presets; clickhouse is the optional query backend and submission log
	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "postfilter",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),

				ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 20),
				PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 3*time.Second),
			},
			CH: store.CHConfig{
				Enabled:     chOn,
				URL:         chURL,
				ClientName:  "postfilter",
				ClientRole:  "api",
				DialTimeout: chCfg.MayDuration("DIAL_TIMEOUT", 0),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Fatal().Err(err).Msg("store open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// postgres was pinged while opening; clickhouse dials lazily, so a failure here is only logged
	if err := st.Ping(ctx); err != nil {
		l.Warn().Err(err).Msg("backend not ready at boot")
	}

	srv := phttp.NewServer(apiCfg)
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	l.Info().Str("addr", srv.Addr()).Msg("listening")
	if err := srv.Run(ctx); err != nil {
		l.Error().Err(err).Msg("http server stopped")
		return
	}
	l.Info().Msg("shut down")
}
