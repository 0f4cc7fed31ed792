package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "REDIS_ADDR", "REDIS_DB", "SEED_DEMO_DATA", "INCIDENT_QUEUE_LIMIT", "HTTP_REQUEST_TIMEOUT_SECONDS"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "incident-events", cfg.Redis.Channel)
	assert.False(t, cfg.Incident.SeedDemoData)
	assert.Equal(t, 6, cfg.Incident.QueueLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("SEED_DEMO_DATA", "true")
	t.Setenv("INCIDENT_QUEUE_LIMIT", "not-a-number")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Incident.SeedDemoData)
	assert.Equal(t, 6, cfg.Incident.QueueLimit)
	assert.Equal(t, time.Duration(0), cfg.App.RequestTimeout())
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "one")
	_, err := Load()
	assert.Error(t, err)
}
