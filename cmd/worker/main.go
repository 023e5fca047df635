// Package main implements the export worker: it copies the users table into the dataset
// file that the API and the terminal picker read when Postgres is not configured.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsjohal14/peoplepicker/internal/libs/config"
	"github.com/dsjohal14/peoplepicker/internal/libs/obs"
	"github.com/dsjohal14/peoplepicker/internal/scope/db"
	"github.com/dsjohal14/peoplepicker/internal/streamlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("worker")

	if !cfg.UsePostgres() {
		logger.Fatal().Msg("DATABASE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	conn := streamlite.NewPostgresConnector(database)
	logger.Info().Str("dataset", cfg.DatasetPath).Dur("interval", cfg.ExportInterval).Msg("worker started")

	if err := export(ctx, conn, cfg.DatasetPath, logger); err != nil && cfg.ExportInterval == 0 {
		logger.Fatal().Err(err).Msg("export failed")
	}
	if cfg.ExportInterval == 0 {
		return
	}

	ticker := time.NewTicker(cfg.ExportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("worker stopped")
			return
		case <-ticker.C:
			_ = export(ctx, conn, cfg.DatasetPath, logger)
		}
	}
}

func export(ctx context.Context, conn streamlite.Connector, path string, logger zerolog.Logger) error {
	start := time.Now()
	n, err := streamlite.Export(ctx, conn, path)
	if err != nil {
		logger.Error().Err(err).Msg("export failed")
		return err
	}
	logger.Info().
		Int("user_count", n).
		Time("loaded_at", conn.LoadedAt()).
		Dur("took", time.Since(start)).
		Msg("users exported")
	return nil
}
