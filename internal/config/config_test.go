package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STREAMSENSE_DATABASE_URL", "postgres://localhost:5432/streamsense")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dev", cfg.Server.Env)
	assert.Equal(t, "https://sandbox.plaid.com", cfg.Feed.BaseURL)
	assert.Equal(t, 365, cfg.Detect.LookbackDays)
	assert.Equal(t, 2, cfg.Detect.MinTransactions)
	assert.Equal(t, float64(80), cfg.Detect.AutoThreshold)
	assert.Equal(t, float64(60), cfg.Detect.SuggestThreshold)
	assert.Equal(t, 100, cfg.Detect.SyncPageSize)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STREAMSENSE_DATABASE_URL", "postgres://db.internal/streamsense")
	t.Setenv("STREAMSENSE_SERVER_PORT", "9090")
	t.Setenv("STREAMSENSE_DETECT_LOOKBACK_DAYS", "180")
	t.Setenv("STREAMSENSE_FEED_WEBHOOK_SECRET", "whsec")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres://db.internal/streamsense", cfg.Database.URL)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 180, cfg.Detect.LookbackDays)
	assert.Equal(t, "whsec", cfg.Feed.WebhookSecret)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("STREAMSENSE_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}
