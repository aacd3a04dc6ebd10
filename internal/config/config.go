package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config application configuration
type Config struct {
	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/dropmail.db"`

	// Session signing key (32 bytes for HMAC-SHA256)
	SessionKey string `env:"SESSION_KEY,required"`

	// Simulated latency for the stub collaborator
	StubLatency time.Duration `env:"STUB_LATENCY" envDefault:"0s"`

	// Telegram notification sink (optional)
	TelegramToken  string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `env:"TELEGRAM_CHAT_ID"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// TelegramEnabled returns true if the Telegram notification sink is configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramToken != "" && c.TelegramChatID != 0
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate signing key length (32 bytes for HMAC-SHA256)
	if len(cfg.SessionKey) != 32 {
		return nil, fmt.Errorf("SESSION_KEY must be exactly 32 bytes, got %d", len(cfg.SessionKey))
	}

	return cfg, nil
}
