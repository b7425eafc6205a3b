// Package main runs Othello as an interactive terminal game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"othello/internal/cli"
	"othello/internal/config"
	"othello/internal/engine"
	"othello/internal/processor"
	"othello/internal/service"
	"othello/internal/storage"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load("othello", os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "othello: %v\n", err)
		os.Exit(2)
	}

	// Info-level game events would interleave with the board
	if cfg.LogLevel == "info" {
		cfg.LogLevel = "warn"
	}
	cfg.SetupLogger(os.Stderr, true)

	var store *storage.Store
	if cfg.StoragePath != "" {
		store, err = storage.NewStore(cfg.StoragePath, false)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open game archive")
		}
		if err := store.InitDB(); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize game archive schema")
		}
	}

	selector := engine.New(nil)
	if cfg.AISeed != 0 {
		selector = engine.NewSeeded(cfg.AISeed)
	}

	svc := service.New(store)
	proc := processor.New(svc, selector, cfg.AIDelay)

	theme := cli.ColorTheme(cfg.Theme)
	if cfg.Theme == "auto" {
		theme = cli.DetectTheme(int(os.Stdout.Fd()))
	}
	view := cli.NewView(os.Stdout, theme)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "othello > ",
		HistoryFile:     historyFile(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize terminal input")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	view.ShowWelcome()
	runErr := cli.NewHandler(proc, svc, view, rl).Run(ctx)

	rl.Close()
	proc.Close()
	if err := svc.Shutdown(2 * time.Second); err != nil {
		log.Warn().Err(err).Msg("shutdown incomplete")
	}

	if runErr != nil {
		log.Error().Err(runErr).Msg("terminal session ended with error")
		os.Exit(1)
	}
}

func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".othello_history"
	}
	return dir + string(os.PathSeparator) + "othello_history"
}
