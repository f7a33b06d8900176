// Package config loads runtime configuration from the environment, with a
// .env file as a development convenience.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"benchboard/internal/utils"
)

const (
	// DefaultModelTTL bounds staleness of the model catalog; catalog data
	// changes infrequently.
	DefaultModelTTL = time.Hour
	// DefaultEndpointTTL bounds staleness of provider endpoint health.
	// Uptime is reported over a 30-minute window, so this is kept short.
	DefaultEndpointTTL = 5 * time.Minute

	defaultDBPath = "benchboard.db"
)

type Config struct {
	DBPath string

	APIBaseURL string
	APIKey     string

	ModelTTL    time.Duration
	EndpointTTL time.Duration

	HTTPTimeout    time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Load reads configuration from the environment. A missing .env file is
// not an error. APIKey may legitimately be empty here; callers fall back
// to the keyring.
func Load() (*Config, error) {
	// Best effort; the environment may be fully populated already.
	_ = utils.LoadEnv()

	cfg := &Config{
		DBPath:     envOr("BENCHBOARD_DB", defaultDBPath),
		APIBaseURL: os.Getenv("OPENROUTER_BASE_URL"),
		APIKey:     os.Getenv("OPENROUTER_API_KEY"),
	}

	var err error
	if cfg.ModelTTL, err = envDuration("BENCHBOARD_MODEL_TTL", DefaultModelTTL); err != nil {
		return nil, err
	}
	if cfg.EndpointTTL, err = envDuration("BENCHBOARD_ENDPOINT_TTL", DefaultEndpointTTL); err != nil {
		return nil, err
	}
	if cfg.HTTPTimeout, err = envDuration("BENCHBOARD_HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.RetryBaseDelay, err = envDuration("BENCHBOARD_RETRY_BASE_DELAY", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = envInt("BENCHBOARD_MAX_RETRIES", 3); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}
