// Package main is the entry point for the qrep representation server.
// It serves matrix and symbolic representations of quantum expressions
// (kets, bras, operators and their composites) over HTTP.
//
// The application is layered:
// - qexpr holds the expression tree and its algebra
// - backend holds the symbolic, dense and sparse result containers
// - representation walks a tree and dispatches to the basis rules
// - spin and oscillator provide concrete quantum objects
// - HTTP handlers expose the engine through the DI container
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/qrep/internal/config"
	"github.com/aristath/qrep/internal/di"
	"github.com/aristath/qrep/internal/server"
	"github.com/aristath/qrep/pkg/logger"
)

// main orchestrates the startup sequence:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires dependencies (cache database, engine, service, catalog, jobs)
// 4. Starts the job scheduler and the HTTP server
// 5. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("default_format", string(cfg.DefaultFormat)).
		Bool("cache", cfg.CacheEnabled).
		Msg("Starting qrep")

	// Wire all dependencies using DI container
	container, _, err := di.Wire(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	// Closing the cache database writes its final WAL checkpoint
	defer container.Close()

	// Background maintenance (expired cache purge, WAL checkpoints)
	container.Scheduler.Start()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Block until SIGINT or SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Let running jobs finish before the database closes
	container.Scheduler.Stop()

	// In-flight requests get up to 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
