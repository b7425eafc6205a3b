package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load reads, restoring them after the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvAPIHost, EnvAPIPort, EnvDev, EnvStoragePath, EnvAIDelay, EnvAISeed, EnvLogLevel} {
		t.Setenv(key, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("test", nil)
	require.NoError(t, err)
	require.Equal(t, "localhost", cfg.APIHost)
	require.Equal(t, 8080, cfg.APIPort)
	require.Equal(t, 1200*time.Millisecond, cfg.AIDelay)
	require.Equal(t, uint64(0), cfg.AISeed)
	require.False(t, cfg.Dev)
	require.Empty(t, cfg.StoragePath)
	require.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIPort, "9000")
	t.Setenv(EnvAIDelay, "300ms")
	t.Setenv(EnvAISeed, "42")
	t.Setenv(EnvDev, "true")
	t.Setenv(EnvLogLevel, "debug")

	t.Run("env over defaults", func(t *testing.T) {
		cfg, err := Load("test", nil)
		require.NoError(t, err)
		require.Equal(t, 9000, cfg.APIPort)
		require.Equal(t, 300*time.Millisecond, cfg.AIDelay)
		require.Equal(t, uint64(42), cfg.AISeed)
		require.True(t, cfg.Dev)
		require.Equal(t, zerolog.DebugLevel, cfg.Level())
	})

	t.Run("flags over env", func(t *testing.T) {
		cfg, err := Load("test", []string{"-api-port", "9100", "-ai-delay", "0s", "-dev=false", "-storage-path", "games.db"})
		require.NoError(t, err)
		require.Equal(t, 9100, cfg.APIPort)
		require.Equal(t, time.Duration(0), cfg.AIDelay)
		require.False(t, cfg.Dev)
		require.Equal(t, "games.db", cfg.StoragePath)
		require.Equal(t, uint64(42), cfg.AISeed)
	})
}

func TestInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"port not a number", map[string]string{EnvAPIPort: "http"}, nil},
		{"bad delay", map[string]string{EnvAIDelay: "soon"}, nil},
		{"bad seed", map[string]string{EnvAISeed: "-1"}, nil},
		{"port out of range", nil, []string{"-api-port", "70000"}},
		{"negative delay", nil, []string{"-ai-delay", "-1s"}},
		{"lock without pid", nil, []string{"-pid-lock"}},
		{"unknown level", map[string]string{EnvLogLevel: "loud"}, nil},
		{"unknown flag", nil, []string{"-fast"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("test", tt.args)
			require.Error(t, err)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// Unset so the file can supply the values; t.Setenv restores afterwards
	require.NoError(t, os.Unsetenv(EnvAPIHost))
	require.NoError(t, os.Unsetenv(EnvAISeed))
	t.Setenv(EnvAPIPort, "7000")

	path := filepath.Join(t.TempDir(), "test.env")
	content := EnvAPIHost + "=0.0.0.0\n" + EnvAISeed + "=99\n" + EnvAPIPort + "=1234\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, LoadEnvFile(path))
	cfg, err := fromEnv(defaults())
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.APIHost)
	require.Equal(t, uint64(99), cfg.AISeed)
	require.Equal(t, 7000, cfg.APIPort, "existing environment wins over the file")

	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
