package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds everything the client reads from the environment. A .env file
// loaded by the caller (godotenv) feeds the same variables.
type Config struct {
	// ServerLink is the Places API base URL, including the /api/ prefix.
	ServerLink string `env:"PLACES_SERVER_LINK, default=http://localhost:5000/api/"`
	// SessionFile overrides the session file location; empty means the
	// user config directory.
	SessionFile string `env:"PLACES_SESSION_FILE"`
	LogLevel    string `env:"LOG_LEVEL,     default=info"`
	LogPretty   bool   `env:"LOG_PRETTY,    default=true"`
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT, default=15s"`

	// Watch mode.
	WatchInterval time.Duration `env:"WATCH_INTERVAL, default=1m"`
	DebugAddr     string        `env:"DEBUG_ADDR,     default=127.0.0.1:9190"`

	// Redis, optional: when Addr is set the session vault lives there
	// instead of the local file.
	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.ServerLink == "" {
		return nil, fmt.Errorf("config: PLACES_SERVER_LINK must be set")
	}
	return &cfg, nil
}
