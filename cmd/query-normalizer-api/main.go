// Package main provides the query normalizer API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/shopsense-ai/query-normalizer/internal/cache"
	"github.com/shopsense-ai/query-normalizer/internal/config"
	"github.com/shopsense-ai/query-normalizer/internal/history"
	"github.com/shopsense-ai/query-normalizer/internal/normalizer"
	"github.com/shopsense-ai/query-normalizer/internal/observability"
)

func main() {
	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("cache", cfg.Cache.Driver).
		Str("history", cfg.History.Driver).
		Msg("Starting query normalizer API")

	cacheClient := newCacheClient(logger, cfg)
	defer cacheClient.Close()

	var sessions *history.Store
	if cfg.History.Enabled {
		db, err := history.Open(cfg.History.Driver, cfg.HistoryDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open history database")
		}
		defer db.Close()

		sessions = history.NewStore(db)
		if err := sessions.Migrate(context.Background()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to migrate history database")
		}
	}

	n := normalizer.New(logger, cacheClient, normalizer.Config{
		ConfidenceThreshold: cfg.Normalizer.ConfidenceThreshold,
		CacheResults:        cfg.Cache.Enabled,
		CacheTTL:            cfg.Cache.TTL,
	})

	router := NewRouter(logger, cfg, n, sessions)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

// newCacheClient builds the configured cache backend, falling back to
// memory when Redis is unreachable.
func newCacheClient(logger *observability.Logger, cfg *config.Config) cache.Client {
	if cfg.Cache.Driver == "redis" {
		client, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err == nil {
			return client
		}
		logger.Warn().Err(err).Msg("Redis unavailable, falling back to memory cache")
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries)
}
