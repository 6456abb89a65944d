package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"moneymap/src/api"
	"moneymap/src/auth"
	"moneymap/src/config"
	"moneymap/src/db"
	"moneymap/src/db/memory"
	sqlstore "moneymap/src/db/sql"
	"moneymap/src/handlers"
	"moneymap/src/logger"

	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	store, cleanup, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StorageDriver).Msg("Failed to open storage")
	}
	defer cleanup()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	router := api.NewRouter(store, tokens, api.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		DemoMode:       cfg.DemoMode,
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Bool("demo_mode", cfg.DemoMode).Msg("API server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (handlers.Store, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
		return memory.New(), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	var cache *db.Cache
	if cfg.CacheEnabled {
		if cache, err = db.NewCache(); err != nil {
			pool.Close()
			return nil, nil, err
		}
	}

	cleanup := func() {
		cache.Close()
		pool.Close()
	}
	return sqlstore.NewRepository(pool, cache), cleanup, nil
}
