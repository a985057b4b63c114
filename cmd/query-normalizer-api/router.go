// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-api/handlers"
	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-api/middleware"
	"github.com/shopsense-ai/query-normalizer/internal/config"
	"github.com/shopsense-ai/query-normalizer/internal/history"
	"github.com/shopsense-ai/query-normalizer/internal/normalizer"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
)

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, n *normalizer.Normalizer, sessions *history.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","service":"query-normalizer"}`))
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ready"}`))
	})

	normalizeHandler := handlers.NewNormalizeHandler(logger, n, sessions)
	sessionsHandler := handlers.NewSessionsHandler(logger, sessions)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(middleware.AuthConfig{
			Enabled: cfg.Auth.Enabled,
			APIKeys: cfg.Auth.APIKeys,
		}))

		r.Post("/normalize", normalizeHandler.Normalize)
		r.Post("/ambiguities", normalizeHandler.Ambiguities)
		r.Get("/sessions", sessionsHandler.List)
	})

	return r
}
