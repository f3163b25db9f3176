// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// LLMConfig provides settings for the LLM oracle.
type LLMConfig interface {
	GetLLMAPIKey() string
	GetLLMBaseURL() string
	GetLLMModel() string
	GetLLMMaxTokens() int
}

// CatalogConfig provides settings for the spreadsheet-backed catalog source.
type CatalogConfig interface {
	GetSheetsAPIKey() string
	GetSheetsSpreadsheetID() string
	GetSheetsSheetName() string
}

// SlackConfig provides settings for outbound Slack notifications.
type SlackConfig interface {
	GetSlackBotToken() string
	GetSlackOrdersChannel() string
	GetSlackSupportChannel() string
	IsSlackEnabled() bool
}

// TelegramConfig provides settings for the Telegram channel adapter.
type TelegramConfig interface {
	GetTelegramBotToken() string
	IsTelegramEnabled() bool
}

// RateLimitConfig provides settings for request throttling.
type RateLimitConfig interface {
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// SessionConfig provides settings for the conversation session store.
type SessionConfig interface {
	GetRedisURL() string
	GetSessionTTL() time.Duration
}

// BotConfig provides bot identity settings.
type BotConfig interface {
	GetBotName() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                 string
	HTTPAddr            string
	CORSAllowAll        bool
	CORSOrigins         []string
	BotName             string
	LLMAPIKey           string
	LLMBaseURL          string
	LLMModel            string
	LLMMaxTokens        int
	SheetsAPIKey        string
	SheetsSpreadsheetID string
	SheetsSheetName     string
	SlackBotToken       string
	SlackOrdersChannel  string
	SlackSupportChannel string
	TelegramBotToken    string
	RedisURL            string
	SessionTTL          time.Duration
	RateLimitRPS        float64
	RateLimitBurst      int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// LLMConfig implementation
func (c *Config) GetLLMAPIKey() string  { return c.LLMAPIKey }
func (c *Config) GetLLMBaseURL() string { return c.LLMBaseURL }
func (c *Config) GetLLMModel() string   { return c.LLMModel }
func (c *Config) GetLLMMaxTokens() int  { return c.LLMMaxTokens }

// CatalogConfig implementation
func (c *Config) GetSheetsAPIKey() string        { return c.SheetsAPIKey }
func (c *Config) GetSheetsSpreadsheetID() string { return c.SheetsSpreadsheetID }
func (c *Config) GetSheetsSheetName() string     { return c.SheetsSheetName }

// SlackConfig implementation
func (c *Config) GetSlackBotToken() string       { return c.SlackBotToken }
func (c *Config) GetSlackOrdersChannel() string  { return c.SlackOrdersChannel }
func (c *Config) GetSlackSupportChannel() string { return c.SlackSupportChannel }
func (c *Config) IsSlackEnabled() bool           { return c.SlackBotToken != "" }

// TelegramConfig implementation
func (c *Config) GetTelegramBotToken() string { return c.TelegramBotToken }
func (c *Config) IsTelegramEnabled() bool     { return c.TelegramBotToken != "" }

// RateLimitConfig implementation
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// SessionConfig implementation
func (c *Config) GetRedisURL() string          { return c.RedisURL }
func (c *Config) GetSessionTTL() time.Duration { return c.SessionTTL }

// BotConfig implementation
func (c *Config) GetBotName() string { return c.BotName }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "*"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "true"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPAddr:            getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:        corsAllowAll,
		CORSOrigins:         corsOrigins,
		BotName:             getEnv("BOT_NAME", "Ruffo"),
		LLMAPIKey:           getEnv("OPENAI_API_KEY", ""),
		LLMBaseURL:          getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		LLMModel:            getEnv("LLM_MODEL", "gpt-5-mini-2025-08-07"),
		LLMMaxTokens:        mustInt(getEnv("LLM_MAX_COMPLETION_TOKENS", "1024")),
		SheetsAPIKey:        getEnv("GOOGLE_SHEETS_API_KEY", ""),
		SheetsSpreadsheetID: getEnv("GOOGLE_SHEETS_ID", ""),
		SheetsSheetName:     getEnv("GOOGLE_SHEETS_NAME", "animalicha_limpia"),
		SlackBotToken:       getEnv("SLACK_BOT_TOKEN", ""),
		SlackOrdersChannel:  getEnv("SLACK_ORDERS_CHANNEL", "#pedidos"),
		SlackSupportChannel: getEnv("SLACK_SUPPORT_CHANNEL", "#soporte"),
		TelegramBotToken:    getEnv("TELEGRAM_BOT_TOKEN", ""),
		RedisURL:            getEnv("REDIS_URL", ""),
		SessionTTL:          mustDuration(getEnv("SESSION_TTL", "24h")),
		RateLimitRPS:        mustFloat(getEnv("RATE_LIMIT_RPS", "5")),
		RateLimitBurst:      mustInt(getEnv("RATE_LIMIT_BURST", "10")),
	}

	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.SheetsSpreadsheetID == "" {
		return nil, fmt.Errorf("GOOGLE_SHEETS_ID is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
