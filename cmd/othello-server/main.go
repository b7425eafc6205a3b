// Package main implements the Othello server: a JSON API over in-memory game
// sessions with an optional SQLite game archive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"othello/cmd/othello-server/cli"
	"othello/internal/config"
	"othello/internal/engine"
	"othello/internal/http"
	"othello/internal/processor"
	"othello/internal/service"
	"othello/internal/storage"

	"github.com/rs/zerolog/log"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	// Check for CLI database commands
	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "CLI error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	cfg, err := config.Load("othello-server", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "othello-server: %v\n", err)
		os.Exit(2)
	}
	cfg.SetupLogger(os.Stderr, false)

	// Manage PID file if requested
	if cfg.PIDPath != "" {
		cleanup, err := managePIDFile(cfg.PIDPath, cfg.PIDLock)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to manage PID file")
		}
		defer cleanup()
		log.Info().Str("path", cfg.PIDPath).Bool("lock", cfg.PIDLock).Msg("PID file created")
	}

	// 1. Initialize storage (optional)
	var store *storage.Store
	if cfg.StoragePath != "" {
		log.Info().Str("path", cfg.StoragePath).Msg("initializing game archive")
		store, err = storage.NewStore(cfg.StoragePath, cfg.Dev)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize schema")
		}
	} else {
		log.Info().Msg("game archive disabled (use -storage-path to enable)")
	}

	// 2. Service owns sessions and closes the store on shutdown
	svc := service.New(store)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	go svc.RunCleanupJob(cleanupCtx, service.CleanupJobInterval, service.SessionIdleTTL)

	// 3. Processor with the AI selector
	selector := engine.New(nil)
	if cfg.AISeed != 0 {
		selector = engine.NewSeeded(cfg.AISeed)
	}
	proc := processor.New(svc, selector, cfg.AIDelay)

	// 4. HTTP
	app := http.NewFiberApp(proc, svc, cfg.Dev)
	apiAddr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)

	go func() {
		log.Info().
			Str("addr", "http://"+apiAddr).
			Str("api", "v1").
			Bool("dev", cfg.Dev).
			Dur("ai_delay", cfg.AIDelay).
			Bool("storage", store != nil).
			Msg("Othello API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.Error().Err(err).Msg("API server listen error")
		}
	}()

	// Wait for an interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server forced to shutdown")
	}

	// Stop AI turns before the sessions they write to go away
	proc.Close()
	cleanupCancel()

	if err := svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.Warn().Err(err).Msg("service shutdown error")
	}

	log.Info().Msg("server exited")
}
