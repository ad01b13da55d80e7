package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the complete service configuration, loaded from MI_* environment
// variables with sensible defaults for local use.
type Config struct {
	Server   ServerConfig `envconfig:"SERVER"`
	Feeds    FeedConfig   `envconfig:"FEEDS"`
	Sink     SinkConfig   `envconfig:"SINK"`
	LogLevel string       `envconfig:"LOG_LEVEL" default:"info"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port              string        `envconfig:"PORT" default:"8080"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"10s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// FeedConfig locates the four feeds. Each feed is read from DataDir unless an
// export URL is set for it, in which case it is fetched over HTTP.
type FeedConfig struct {
	DataDir      string        `envconfig:"DATA_DIR" default:"data"`
	FacebookURL  string        `envconfig:"FACEBOOK_URL"`
	GoogleURL    string        `envconfig:"GOOGLE_URL"`
	TikTokURL    string        `envconfig:"TIKTOK_URL"`
	BusinessURL  string        `envconfig:"BUSINESS_URL"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"15s"`
	RetryBase    time.Duration `envconfig:"RETRY_BASE" default:"100ms"`
	RetryMax     int           `envconfig:"RETRY_MAX" default:"3"`
}

// SinkConfig is the optional downstream BI sink for signed metric pushes.
type SinkConfig struct {
	URL    string `envconfig:"URL"`
	Secret string `envconfig:"SECRET"`
}

// Load reads configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("MI", &cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto slog's levels. Unknown names
// fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
