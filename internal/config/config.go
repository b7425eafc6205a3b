// Package config resolves runtime settings from defaults, an optional .env
// file, environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvAPIHost     = "OTHELLO_API_HOST"
	EnvAPIPort     = "OTHELLO_API_PORT"
	EnvDev         = "OTHELLO_DEV"
	EnvStoragePath = "OTHELLO_STORAGE_PATH"
	EnvAIDelay     = "OTHELLO_AI_DELAY"
	EnvAISeed      = "OTHELLO_AI_SEED"
	EnvLogLevel    = "LOG_LEVEL"

	DefaultEnvFile = ".env"
)

type Config struct {
	APIHost     string
	APIPort     int
	Dev         bool
	StoragePath string
	PIDPath     string
	PIDLock     bool
	AIDelay     time.Duration
	AISeed      uint64 // 0 seeds from the clock
	LogLevel    string
	Theme       string
}

func defaults() Config {
	return Config{
		APIHost:  "localhost",
		APIPort:  8080,
		AIDelay:  1200 * time.Millisecond,
		LogLevel: "info",
		Theme:    "auto",
	}
}

// Load builds the configuration for the named program. The .env file in the
// working directory is read if present; variables already set in the
// environment win over the file.
func Load(name string, args []string) (Config, error) {
	if err := LoadEnvFile(DefaultEnvFile); err != nil {
		return Config{}, err
	}

	cfg, err := fromEnv(defaults())
	if err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.StringVar(&cfg.APIHost, "api-host", cfg.APIHost, "API server host")
	flags.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "API server port")
	flags.BoolVar(&cfg.Dev, "dev", cfg.Dev, "Development mode (relaxed rate limits, console logging)")
	flags.StringVar(&cfg.StoragePath, "storage-path", cfg.StoragePath, "Path to SQLite game archive (disabled if empty)")
	flags.StringVar(&cfg.PIDPath, "pid", cfg.PIDPath, "Optional path to write PID file")
	flags.BoolVar(&cfg.PIDLock, "pid-lock", cfg.PIDLock, "Lock PID file to allow only one instance (requires -pid)")
	flags.DurationVar(&cfg.AIDelay, "ai-delay", cfg.AIDelay, "Delay before the AI plays its move")
	flags.Uint64Var(&cfg.AISeed, "ai-seed", cfg.AISeed, "Seed for the easy AI's random choices (0 = time based)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.Theme, "theme", cfg.Theme, "Terminal board theme (auto, off, green, gray, blue)")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadEnvFile applies a dotenv file without overriding existing variables.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func fromEnv(cfg Config) (Config, error) {
	if v, ok := os.LookupEnv(EnvAPIHost); ok && v != "" {
		cfg.APIHost = v
	}
	if v, ok := os.LookupEnv(EnvAPIPort); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvAPIPort, err)
		}
		cfg.APIPort = port
	}
	if v, ok := os.LookupEnv(EnvDev); ok && v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvDev, err)
		}
		cfg.Dev = dev
	}
	if v, ok := os.LookupEnv(EnvStoragePath); ok {
		cfg.StoragePath = v
	}
	if v, ok := os.LookupEnv(EnvAIDelay); ok && v != "" {
		delay, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvAIDelay, err)
		}
		cfg.AIDelay = delay
	}
	if v, ok := os.LookupEnv(EnvAISeed); ok && v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", EnvAISeed, err)
		}
		cfg.AISeed = seed
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return fmt.Errorf("api port %d out of range", c.APIPort)
	}
	if c.AIDelay < 0 {
		return fmt.Errorf("ai delay must not be negative")
	}
	if c.PIDLock && c.PIDPath == "" {
		return fmt.Errorf("-pid-lock flag requires the -pid flag to be set")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// Level returns the zerolog level; Validate has already checked it parses
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// SetupLogger points the global zerolog logger at out, with a human readable
// console writer in dev mode or when console is set
func (c Config) SetupLogger(out io.Writer, console bool) {
	zerolog.SetGlobalLevel(c.Level())
	zerolog.TimeFieldFormat = time.RFC3339

	if c.Dev || console {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
