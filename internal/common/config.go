package common

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	LLM      LLMConfig
	Pricing  PricingConfig
}

// DatabaseConfig holds configuration for the application database
// (quotes, prompt configs, index observations).
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPAddr  string
	UploadDir string
	ReportDir string
}

// LLMConfig holds Azure OpenAI configuration. Temperature is fixed at 0 by
// the client; it is deliberately not configurable.
type LLMConfig struct {
	Endpoint   string
	APIKey     string
	Deployment string
	APIVersion string
	Timeout    time.Duration
}

// PriceSourceConfig names one business-unit historical purchase database.
type PriceSourceConfig struct {
	Name string
	DSN  string
}

// PricingConfig holds price-analysis configuration. Sources preserves the
// order given in PRICE_SOURCES; fetch results are concatenated in that order.
type PricingConfig struct {
	LookbackDays int
	Sources      []PriceSourceConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
			UploadDir: getEnv("UPLOAD_DIR", "./media/uploads"),
			ReportDir: getEnv("REPORT_DIR", "./media/reports"),
		},
		LLM: LLMConfig{
			Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
			APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
			Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT_NAME", ""),
			APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
			Timeout:    getEnvAsDuration("AZURE_OPENAI_TIMEOUT", 45*time.Second),
		},
		Pricing: PricingConfig{
			LookbackDays: int(getEnvAsInt32("PRICE_LOOKBACK_DAYS", 365)),
			Sources:      parsePriceSources(os.Getenv("PRICE_SOURCES")),
		},
	}
}

// parsePriceSources parses "unit_a=dsn1;unit_b=dsn2" into an ordered list.
// Malformed entries are skipped.
func parsePriceSources(raw string) []PriceSourceConfig {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []PriceSourceConfig
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, dsn, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		dsn = strings.TrimSpace(dsn)
		if !ok || name == "" || dsn == "" {
			continue
		}
		out = append(out, PriceSourceConfig{Name: name, DSN: dsn})
	}
	return out
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return NewAppError("CONFIG_ERROR", "DB_URL is required", ErrInvalidInput)
	}
	if c.LLM.Endpoint == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_OPENAI_ENDPOINT is required", ErrInvalidInput)
	}
	if c.LLM.APIKey == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_OPENAI_API_KEY is required", ErrInvalidInput)
	}
	if c.LLM.Deployment == "" {
		return NewAppError("CONFIG_ERROR", "AZURE_OPENAI_DEPLOYMENT_NAME is required", ErrInvalidInput)
	}
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrInvalidInput)
	}
	return nil
}
