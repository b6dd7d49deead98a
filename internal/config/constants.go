package config

import "time"

const (
	// Model config defaults
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.5

	// Temperature bounds, inclusive
	MinTemperature = 0.0
	MaxTemperature = 1.0

	// Default model for the example programs
	DefaultModel = "claude-sonnet-4-20250514"

	// AI request timeout, enforced by the HTTP client
	RequestTimeout = 90 * time.Second

	// Model catalog cache duration
	ModelCacheDuration = 1 * time.Hour

	// Telegram limits
	MaxTelegramMessageLen = 4096
	TypingInterval        = 4 * time.Second
)

// TemperatureOptions offered by the bot.
var TemperatureOptions = []float64{0.0, 0.25, 0.5, 0.75, 1.0}
