package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cbodonnell/arena/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(env map[string]string) func(string) string {
	return func(name string) string {
		return env[name]
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		check   func(t *testing.T, cfg *Config)
		wantErr bool
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Default(), cfg)
			},
		},
		{
			name: "env overrides default",
			env: map[string]string{
				"ARENA_PORT":                 "9000",
				"ARENA_LOG_LEVEL":            "debug",
				"ARENA_SESSION_IDLE_TIMEOUT": "5m",
				"ARENA_DATABASE_URL":         "sqlite://arena.db",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9000, cfg.Port)
				assert.Equal(t, log.LogLevelDebug, cfg.LogLevel)
				assert.Equal(t, 5*time.Minute, cfg.SessionIdleTimeout)
				assert.Equal(t, "sqlite://arena.db", cfg.DatabaseURL)
			},
		},
		{
			name: "flag overrides env",
			args: []string{"-port", "7000", "-log-level", "trace"},
			env:  map[string]string{"ARENA_PORT": "9000", "ARENA_LOG_LEVEL": "debug"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Port)
				assert.Equal(t, log.LogLevelTrace, cfg.LogLevel)
			},
		},
		{
			name:    "bad duration",
			env:     map[string]string{"ARENA_SWEEP_INTERVAL": "often"},
			wantErr: true,
		},
		{
			name:    "bad log level",
			args:    []string{"-log-level", "loud"},
			wantErr: true,
		},
		{
			name:    "port out of range",
			args:    []string{"-port", "0"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.args, mapEnv(tt.env))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_envFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ARENA_PORT=9191\n"), 0o600))
	t.Setenv("ARENA_ENV_FILE", path)
	// godotenv never overrides variables that are already set
	t.Setenv("ARENA_PORT", "")
	os.Unsetenv("ARENA_PORT")

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Port)
}

func TestLoad_missingEnvFile(t *testing.T) {
	t.Setenv("ARENA_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	_, err := Load(nil)
	assert.NoError(t, err)
}
