package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"spot-the-bot/internal/ai"
	"spot-the-bot/internal/config"
	"spot-the-bot/internal/db"
	"spot-the-bot/internal/game"
	"spot-the-bot/internal/logger"
	"spot-the-bot/internal/server"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("failed to load .env")
	}
	cfg := config.Load()
	lg := logger.New(cfg.LogLevel)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, catalog, closeStore, err := openStore(ctx, cfg, lg)
	if err != nil {
		lg.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("store setup failed")
	}
	defer closeStore()

	persona, err := ai.LoadPersona(cfg.AIPersonaPath)
	if err != nil {
		lg.Fatal().Err(err).Msg("persona setup failed")
	}
	responder, err := ai.FromConfig(cfg)
	if err != nil {
		lg.Fatal().Err(err).Msg("ai setup failed")
	}

	srv := server.New(cfg, server.Deps{
		Store:     store,
		Catalog:   catalog,
		Responder: responder,
		Persona:   persona,
		Logger:    lg,
	})
	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info().
			Str("addr", httpServer.Addr).
			Str("store", cfg.StoreBackend).
			Str("ai", cfg.AIProvider).
			Msg("spot-the-bot server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	lg.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		lg.Error().Err(err).Msg("http shutdown failed")
	}
	srv.Close()
}

// openStore returns the room store for STORE_BACKEND. Postgres also backs the
// theme catalog; the other backends use the built-in themes.
func openStore(ctx context.Context, cfg config.Config, lg zerolog.Logger) (server.RoomStore, game.Catalog, func(), error) {
	noop := func() {}
	switch cfg.StoreBackend {
	case config.StoreMemory, "":
		return server.NewMemoryStore(), game.DefaultCatalog(), noop, nil
	case config.StorePostgres:
		conn, err := db.Open(cfg.DatabaseURL, db.PoolConfig{
			MaxOpenConns:    cfg.DBMaxOpenConns,
			MaxIdleConns:    cfg.DBMaxIdleConns,
			ConnMaxLifetime: time.Duration(cfg.DBConnMaxLifetimeSeconds) * time.Second,
			ConnMaxIdleTime: time.Duration(cfg.DBConnMaxIdleTimeSeconds) * time.Second,
		})
		if err != nil {
			return nil, nil, noop, err
		}
		if err := db.Migrate(conn); err != nil {
			return nil, nil, noop, fmt.Errorf("auto-migrate: %w", err)
		}
		closeConn := func() {
			if sqlDB, err := conn.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		lg.Info().Msg("postgres store ready")
		return server.NewGormStore(conn), db.NewThemeCatalog(conn), closeConn, nil
	case config.StoreRedis:
		if cfg.RedisURL == "" {
			return nil, nil, noop, errors.New("REDIS_URL is not set")
		}
		store, err := server.NewRedisStore(ctx, cfg.RedisURL, cfg.RoomTTL())
		if err != nil {
			return nil, nil, noop, err
		}
		closeRedis := func() {
			if err := store.Close(); err != nil {
				lg.Warn().Err(err).Msg("redis close failed")
			}
		}
		lg.Info().Msg("redis store ready")
		return store, game.DefaultCatalog(), closeRedis, nil
	default:
		return nil, nil, noop, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
