package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/cbodonnell/arena/pkg/game/constants"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read by Load
const EnvPrefix = "ARENA_"

// Config is the server configuration.
type Config struct {
	Port               int
	LogLevel           log.LogLevel
	DatabaseURL        string
	AllowOrigin        string
	SweepInterval      time.Duration
	SessionIdleTimeout time.Duration
	PlayerIdleTimeout  time.Duration
	StatsFlushInterval time.Duration
	EventQueueSize     int
}

func Default() *Config {
	return &Config{
		Port:               8080,
		LogLevel:           log.LogLevelInfo,
		DatabaseURL:        "memory://",
		AllowOrigin:        "*",
		SweepInterval:      constants.SessionSweepInterval,
		SessionIdleTimeout: constants.SessionIdleTimeout,
		PlayerIdleTimeout:  constants.PlayerIdleTimeout,
		StatsFlushInterval: 5 * time.Second,
		EventQueueSize:     10000,
	}
}

// Load reads the configuration from an optional .env file, ARENA_* environment
// variables and command line flags, in increasing order of precedence.
// The .env file is taken from ARENA_ENV_FILE when set.
func Load(args []string) (*Config, error) {
	envFile := os.Getenv(EnvPrefix + "ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %v", envFile, err)
	}
	return Parse(args, os.Getenv)
}

// Parse builds the configuration from environment lookups and command line flags.
func Parse(args []string, getenv func(string) string) (*Config, error) {
	cfg := Default()
	env := func(name string) string {
		return getenv(EnvPrefix + name)
	}

	var err error
	if cfg.Port, err = envInt(env("PORT"), cfg.Port); err != nil {
		return nil, fmt.Errorf("invalid %sPORT: %v", EnvPrefix, err)
	}
	logLevel := cfg.LogLevel.String()
	if v := env("LOG_LEVEL"); v != "" {
		logLevel = v
	}
	if v := env("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := env("ALLOW_ORIGIN"); v != "" {
		cfg.AllowOrigin = v
	}
	durations := []struct {
		name string
		dst  *time.Duration
	}{
		{"SWEEP_INTERVAL", &cfg.SweepInterval},
		{"SESSION_IDLE_TIMEOUT", &cfg.SessionIdleTimeout},
		{"PLAYER_IDLE_TIMEOUT", &cfg.PlayerIdleTimeout},
		{"STATS_FLUSH_INTERVAL", &cfg.StatsFlushInterval},
	}
	for _, d := range durations {
		if *d.dst, err = envDuration(env(d.name), *d.dst); err != nil {
			return nil, fmt.Errorf("invalid %s%s: %v", EnvPrefix, d.name, err)
		}
	}
	if cfg.EventQueueSize, err = envInt(env("EVENT_QUEUE_SIZE"), cfg.EventQueueSize); err != nil {
		return nil, fmt.Errorf("invalid %sEVENT_QUEUE_SIZE: %v", EnvPrefix, err)
	}

	flags := flag.NewFlagSet("arena-server", flag.ContinueOnError)
	flags.IntVar(&cfg.Port, "port", cfg.Port, "port to listen on")
	flags.StringVar(&logLevel, "log-level", logLevel, "log level")
	flags.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "match event storage: memory://, sqlite://<path> or postgresql://...")
	flags.StringVar(&cfg.AllowOrigin, "allow-origin", cfg.AllowOrigin, "allowed CORS origin")
	flags.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "how often idle sessions are evicted")
	flags.DurationVar(&cfg.SessionIdleTimeout, "session-idle-timeout", cfg.SessionIdleTimeout, "how long a session may go without updates")
	flags.DurationVar(&cfg.PlayerIdleTimeout, "player-idle-timeout", cfg.PlayerIdleTimeout, "how long a player may go without updates")
	flags.DurationVar(&cfg.StatsFlushInterval, "stats-flush-interval", cfg.StatsFlushInterval, "how often match events are saved")
	flags.IntVar(&cfg.EventQueueSize, "event-queue-size", cfg.EventQueueSize, "maximum number of unsaved match events")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.LogLevel, err = log.ParseLogLevel(logLevel); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.SweepInterval <= 0 || c.StatsFlushInterval <= 0 {
		return fmt.Errorf("intervals must be positive")
	}
	if c.SessionIdleTimeout <= 0 || c.PlayerIdleTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func envInt(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func envDuration(v string, def time.Duration) (time.Duration, error) {
	if v == "" {
		return def, nil
	}
	return time.ParseDuration(v)
}
