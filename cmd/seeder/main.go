package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"lightbnb/internal/adapters/fixtures"
	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/app"
	"lightbnb/internal/shared"
	"lightbnb/internal/storage/sqlstore"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	observability.Serve(cfg.MetricsAddr)

	if cfg.Store == "memory" {
		log.Fatal().Msg("seeder needs a relational store (LIGHTBNB_STORE=postgres|mysql)")
	}

	log.Info().
		Str("dir", cfg.FixturesDir).
		Str("url", cfg.FixturesURL).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	src, err := fixtures.NewSource(cfg.FixturesDir, cfg.FixturesURL, cfg.SeedRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("fixture source failed")
	}
	ds, err := fixtures.Load(ctx, src)
	if err != nil {
		log.Fatal().Err(err).Msg("fixture load failed")
	}

	db, err := sqlstore.Connect(ctx, cfg.DBOptions())
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()
	log.Info().Msg("db ping ok")

	rep, err := app.NewSeedService(sqlstore.New(db), cfg.SeedWorkers).Seed(ctx, ds)
	if err != nil {
		log.Error().Err(err).Msg("seeding aborted")
		return
	}
	log.Info().
		Int64("users", rep.Users).
		Int64("properties", rep.Properties).
		Int64("reservations", rep.Reservations).
		Int64("reviews", rep.Reviews).
		Int64("failed", rep.Failed).
		Msg("seeding completed")
}
