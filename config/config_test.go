package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Figma.Configured())
	assert.Equal(t, 365, cfg.Analytics.MaxDays)
	assert.Equal(t, 30*time.Minute, cfg.Analytics.ViewDedupeWindow)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("FIGMA_ACCESS_TOKEN", "figd_abc")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("PUBLIC_BASE_URL", "https://decks.example/")
	t.Setenv("FIGMA_THUMBNAIL_TTL", "90m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Figma.Configured())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://decks.example", cfg.Server.PublicBaseURL)
	assert.Equal(t, 90*time.Minute, cfg.Figma.ThumbnailTTL)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "true")
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("VIEW_DEDUPE_WINDOW", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 30*time.Minute, cfg.Analytics.ViewDedupeWindow)
}

func TestValidate_RequiresFirebaseCredentials(t *testing.T) {
	t.Setenv("AUTH_DISABLED", "false")
	t.Setenv("FIREBASE_CREDENTIALS_PATH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FIREBASE_CREDENTIALS_PATH")
}
