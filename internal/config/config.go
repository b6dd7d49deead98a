package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/set-night/mindlink/internal/domain"
)

type Config struct {
	// Model
	Model        string  `env:"MODEL" envDefault:"claude-sonnet-4-20250514"`
	SystemPrompt string  `env:"SYSTEM_PROMPT"`
	MaxTokens    int     `env:"MAX_TOKENS" envDefault:"1024"`
	Temperature  float64 `env:"TEMPERATURE" envDefault:"0.5"`

	// Transport
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"90s"`

	// Credentials
	DotenvFiles []string `env:"DOTENV_FILES" envSeparator:"," envDefault:".env"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Maintenance
	ModelsCacheTTL time.Duration `env:"MODELS_CACHE_TTL" envDefault:"1h"`

	// Telegram front end
	BotToken          string  `env:"BOT_TOKEN"`
	AllowedUserIDs    []int64 `env:"ALLOWED_USER_IDS" envSeparator:","`
	ShowCost          bool    `env:"SHOW_COST" envDefault:"false"`
	MarkupPercent     float64 `env:"MARKUP_PERCENT" envDefault:"0"`
	LogTelegramChatID int64   `env:"LOG_TELEGRAM_CHAT_ID"`
}

func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses cfg from vars instead of the process environment.
func LoadFrom(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Provider resolves MODEL to a supported provider.
func (c *Config) Provider() (domain.Provider, error) {
	return domain.ParseProvider(c.Model)
}

func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// IsAllowed reports whether telegramID may use the bot. An empty list allows everyone.
func (c *Config) IsAllowed(telegramID int64) bool {
	if len(c.AllowedUserIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedUserIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
