package main

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/adapters/fixtures"
	server "lightbnb/internal/adapters/http_server"
	"lightbnb/internal/adapters/observability"
	redisad "lightbnb/internal/adapters/redis"
	"lightbnb/internal/app"
	"lightbnb/internal/domain"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage/memory"
	"lightbnb/internal/storage/sqlstore"
)

func main() {
	ctx := context.Background()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	// store
	var store domain.Store
	if cfg.Store == "memory" {
		src, err := fixtures.NewSource(cfg.FixturesDir, cfg.FixturesURL, cfg.SeedRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("fixture source failed")
		}
		ds, err := fixtures.Load(ctx, src)
		if err != nil {
			log.Fatal().Err(err).Msg("fixture load failed")
		}
		store = memory.New(ds)
		log.Info().Int("users", len(ds.Users)).Int("properties", len(ds.Properties)).Msg("memory store ready")
	} else {
		db, err := sqlstore.Connect(ctx, cfg.DBOptions())
		if err != nil {
			log.Fatal().Err(err).Msg("database connect failed")
		}
		defer db.Close()
		log.Info().Str("driver", cfg.Store).Msg("database connection ok")
		store = sqlstore.New(db)
	}

	// optional cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		if err := rc.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without cache")
		} else {
			cache = rc
		}
		cancel()
	}
	svc := app.NewService(store, cache, cfg.CacheTTL)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
