package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultChannelName is the broadcast channel used for company-wide
	// service-impacting notices.
	DefaultChannelName = "service-impacting-events"

	// DefaultDMNote is the advisory sent when a user is (re)added to
	// the broadcast channel.
	DefaultDMNote = "Heads up: this channel is used for company-wide service-impacting updates. We keep everyone added so you don't miss critical notices."
)

// Config holds application configuration.
type Config struct {
	// Server
	ServerAddr string
	ServerPort int

	// Slack
	SlackBotToken      string
	SlackSigningSecret string
	SlackAPIBaseURL    string
	SlackTimeout       time.Duration

	// Reconciliation
	ChannelName      string
	DMNote           string
	ChannelPageLimit int

	// HTTP hardening
	RateLimit          RateLimitConfig
	MaxRequestBodySize int64

	// Logging
	LogLevel slog.Level
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	Enabled                 bool
	EventsRequestsPerMinute int
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		// Server defaults
		ServerAddr: getEnv("SERVER_ADDR", "0.0.0.0"),
		ServerPort: getEnvInt("PORT", 3000),

		// Slack credentials and client tuning
		SlackBotToken:      getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret: getEnv("SLACK_SIGNING_SECRET", ""),
		SlackAPIBaseURL:    getEnv("SLACK_API_BASE_URL", "https://slack.com/api"),
		SlackTimeout:       getEnvDuration("SLACK_TIMEOUT", 10*time.Second),

		// Reconciliation defaults
		ChannelName:      getEnv("SIE_CHANNEL_NAME", DefaultChannelName),
		DMNote:           getEnv("DM_NOTE", DefaultDMNote),
		ChannelPageLimit: getEnvInt("CHANNEL_PAGE_LIMIT", 1000),

		// HTTP hardening defaults
		RateLimit: RateLimitConfig{
			Enabled:                 getEnvBool("RATE_LIMIT_ENABLED", true),
			EventsRequestsPerMinute: getEnvInt("EVENTS_REQUESTS_PER_MINUTE", 300),
		},
		MaxRequestBodySize: getEnvInt64("MAX_REQUEST_BODY_SIZE", 1<<20),

		LogLevel: getEnvLogLevel("LOG_LEVEL", slog.LevelInfo),
	}

	// Validate required fields
	if cfg.SlackBotToken == "" {
		return nil, fmt.Errorf("SLACK_BOT_TOKEN is required")
	}
	if cfg.SlackSigningSecret == "" {
		return nil, fmt.Errorf("SLACK_SIGNING_SECRET is required")
	}
	if cfg.ChannelName == "" {
		return nil, fmt.Errorf("SIE_CHANNEL_NAME must not be empty")
	}
	if cfg.ChannelPageLimit < 1 || cfg.ChannelPageLimit > 1000 {
		return nil, fmt.Errorf("CHANNEL_PAGE_LIMIT must be between 1 and 1000")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvLogLevel(key string, defaultValue slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultValue
	}
}
