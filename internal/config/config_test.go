package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, "data", cfg.Feeds.DataDir)
	assert.Equal(t, 15*time.Second, cfg.Feeds.FetchTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Feeds.RetryBase)
	assert.Equal(t, 3, cfg.Feeds.RetryMax)
	assert.Empty(t, cfg.Feeds.FacebookURL)
	assert.Empty(t, cfg.Sink.URL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MI_SERVER_PORT", "9090")
	t.Setenv("MI_FEEDS_DATA_DIR", "/srv/feeds")
	t.Setenv("MI_FEEDS_FACEBOOK_URL", "https://exports.example.com/fb.csv")
	t.Setenv("MI_FEEDS_RETRY_MAX", "5")
	t.Setenv("MI_SINK_URL", "https://bi.example.com/push")
	t.Setenv("MI_SINK_SECRET", "s3cret")
	t.Setenv("MI_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/feeds", cfg.Feeds.DataDir)
	assert.Equal(t, "https://exports.example.com/fb.csv", cfg.Feeds.FacebookURL)
	assert.Equal(t, 5, cfg.Feeds.RetryMax)
	assert.Equal(t, "https://bi.example.com/push", cfg.Sink.URL)
	assert.Equal(t, "s3cret", cfg.Sink.Secret)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Config{LogLevel: tt.in}
		assert.Equal(t, tt.want, cfg.SlogLevel(), "level %q", tt.in)
	}
}
