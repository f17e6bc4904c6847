// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// LogLevel controls the minimum log level: debug, info, warn or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to the Vite dev server.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"http://localhost:5173" envSeparator:","`

	// RedisURL enables the open-request cache and the match event publisher.
	// Empty disables both.
	RedisURL string `env:"REDIS_URL"`

	// CacheTTL bounds how stale a cached open-request page may be.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30s"`

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// ReadRetryAttempts is the total number of tries for idempotent reads.
	ReadRetryAttempts uint64 `env:"READ_RETRY_ATTEMPTS" envDefault:"3"`

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	Matching MatchingConfig
}

// MatchingConfig tunes the classifier.
type MatchingConfig struct {
	// DateThresholdDays is how many days outside a request's window a trip may
	// depart and still be a flexible-date match.
	DateThresholdDays int `env:"MATCH_DATE_THRESHOLD_DAYS" envDefault:"3"`

	// RegionsFile points at a YAML region table replacing the built-in one.
	RegionsFile string `env:"REGIONS_FILE"`
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is read first when present; variables
// already set in the environment win. A variable set to the empty string
// counts as unset and takes its default.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: nonEmptyEnviron()}); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel returns LogLevel as a slog.Level.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c Config) validate() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("config: LOG_LEVEL %q: want debug, info, warn or error", c.LogLevel)
	}
	if c.Matching.DateThresholdDays < 0 {
		return fmt.Errorf("config: MATCH_DATE_THRESHOLD_DAYS must not be negative, got %d", c.Matching.DateThresholdDays)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("config: CACHE_TTL must be positive, got %s", c.CacheTTL)
	}
	return nil
}

// nonEmptyEnviron returns the process environment without empty values.
func nonEmptyEnviron() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && v != "" {
			out[k] = v
		}
	}
	return out
}

// trimAll trims each entry and drops the empty ones.
func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
