package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"BENCHBOARD_DB", "OPENROUTER_BASE_URL", "OPENROUTER_API_KEY",
		"BENCHBOARD_MODEL_TTL", "BENCHBOARD_ENDPOINT_TTL",
		"BENCHBOARD_HTTP_TIMEOUT", "BENCHBOARD_RETRY_BASE_DELAY",
		"BENCHBOARD_MAX_RETRIES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultDBPath, cfg.DBPath)
	assert.Equal(t, DefaultModelTTL, cfg.ModelTTL)
	assert.Equal(t, DefaultEndpointTTL, cfg.EndpointTTL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHBOARD_DB", "/tmp/custom.db")
	t.Setenv("BENCHBOARD_MODEL_TTL", "30m")
	t.Setenv("BENCHBOARD_ENDPOINT_TTL", "90s")
	t.Setenv("BENCHBOARD_MAX_RETRIES", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, 30*time.Minute, cfg.ModelTTL)
	assert.Equal(t, 90*time.Second, cfg.EndpointTTL)
	assert.Equal(t, 5, cfg.MaxRetries)
}

func TestLoadZeroMaxRetriesIsPreserved(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHBOARD_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.MaxRetries, "an explicit zero disables retries")
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCHBOARD_MODEL_TTL", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BENCHBOARD_MODEL_TTL")
}
