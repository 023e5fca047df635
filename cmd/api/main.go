// Package main implements the HTTP user search service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	apihttp "github.com/dsjohal14/peoplepicker/internal/http"
	"github.com/dsjohal14/peoplepicker/internal/libs/config"
	"github.com/dsjohal14/peoplepicker/internal/libs/obs"
	"github.com/dsjohal14/peoplepicker/internal/scope/db"
	"github.com/dsjohal14/peoplepicker/internal/scope/search"
	"github.com/dsjohal14/peoplepicker/internal/streamlite"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Init logger
	obs.InitLogger(cfg.LogLevel)
	logger := obs.Logger("api")

	store := db.NewStore()
	defer func() { _ = store.Close() }()

	if err := loadUsers(cfg, store, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to load users")
	}

	fields := search.NameSurname
	if cfg.SearchIncludeDomain {
		fields = search.NameSurnameDomain
	}
	engine := search.NewEngine(store, fields)

	// Create HTTP handler
	handler := apihttp.NewHandler(store, engine, logger)

	// Setup router
	r := setupRouter(handler)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	logger.Info().Str("addr", addr).Bool("search_domain", cfg.SearchIncludeDomain).Msg("starting API server")

	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func setupRouter(h *apihttp.Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// Routes
	r.Get("/health", h.HandleHealth)
	r.Get("/users", h.HandleUsers)
	r.Get("/users/{id}", h.HandleUser)

	return r
}

// loadUsers fills the store from Postgres when DATABASE_URL is set, otherwise from the dataset file
func loadUsers(cfg *config.Config, store *db.Store, logger zerolog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var conn streamlite.Connector
	if cfg.UsePostgres() {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()
		conn = streamlite.NewPostgresConnector(database)
	} else {
		conn = streamlite.NewFileConnector(cfg.DatasetPath)
	}

	logger.Info().Str("connector", conn.Name()).Msg("loading users")
	n, err := streamlite.Sync(ctx, conn, store)
	if err != nil {
		return err
	}
	logger.Info().
		Str("connector", conn.Name()).
		Int("rows", conn.Loaded()).
		Int("user_count", n).
		Time("loaded_at", conn.LoadedAt()).
		Msg("users loaded")
	return nil
}
