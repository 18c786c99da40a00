package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ultraselfai/game-provider-sub000/internal/concurrency"
	"github.com/ultraselfai/game-provider-sub000/internal/config"
	"github.com/ultraselfai/game-provider-sub000/internal/database"
	"github.com/ultraselfai/game-provider-sub000/internal/database/postgres"
	"github.com/ultraselfai/game-provider-sub000/internal/event"
	"github.com/ultraselfai/game-provider-sub000/internal/game"
	"github.com/ultraselfai/game-provider-sub000/internal/outcome"
	"github.com/ultraselfai/game-provider-sub000/internal/pool"
	"github.com/ultraselfai/game-provider-sub000/internal/server"
	"github.com/ultraselfai/game-provider-sub000/internal/spin"
)

const (
	dbMaxConns      = 10
	dbMaxIdleTime   = 5 * time.Minute
	dbMaxLifetime   = 30 * time.Minute
	shutdownTimeout = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Service exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	initLogger(cfg)
	slog.Info("Starting game provider", "version", cfg.Version, "environment", cfg.Environment)

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn(w)
	}

	if err := database.Migrate(cfg.GetDBConnString()); err != nil {
		return err
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	registry, err := game.NewRegistry(cfg.GamesDir)
	if err != nil {
		return err
	}

	poolRepo := postgres.NewPoolRepository(dbPool)
	roundRepo := postgres.NewRoundRepository(dbPool)

	deadLetter, err := event.NewDeadLetterWriter(cfg.DeadLetterPath)
	if err != nil {
		return err
	}
	defer deadLetter.Close()

	bus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(bus, event.DefaultResilientConfig(), deadLetter)

	poolDefaults := config.ResolvePoolConfig(nil, &cfg.Pool)
	poolService := pool.NewService(poolRepo, concurrency.NewLockManager(), poolDefaults, publisher)

	spinService := spin.NewService(registry, outcome.NewSelector(), poolService, roundRepo, publisher)

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.ServiceName, cfg.Version, dbPool, spinService, poolService, registry)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}
	if err := spinService.Shutdown(ctx); err != nil {
		slog.Error("Spin service shutdown timed out", "error", err)
	}

	slog.Info("Shutdown complete")
	return nil
}
