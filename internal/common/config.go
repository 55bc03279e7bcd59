package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Pipeline PipelineConfig
	Catalog  CatalogConfig
	Log      LogConfig
}

// PipelineConfig holds the tunable thresholds for the postprocessing core.
// All three are injected per invocation; nothing inside the core caches them.
type PipelineConfig struct {
	ManualReviewThreshold  float64 // mean confidence below this forces review
	AutoAcceptThreshold    float64 // mean confidence at/above this allows auto-accept
	TotalsTolerancePercent float64 // allowed total vs line-sum drift, in percent
}

// CatalogConfig selects where catalog alias snapshots are loaded from.
type CatalogConfig struct {
	Source      string // "json" | "sqlite" | "postgres"
	Path        string // snapshot file for json/sqlite sources
	DSN         string // postgres connection string
	DialTimeout time.Duration
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			ManualReviewThreshold:  getEnvAsFloat64("OCR_MANUAL_REVIEW_THRESHOLD", 0.60),
			AutoAcceptThreshold:    getEnvAsFloat64("OCR_AUTO_ACCEPT_THRESHOLD", 0.85),
			TotalsTolerancePercent: getEnvAsFloat64("OCR_TOTALS_TOLERANCE_PERCENT", 5.0),
		},
		Catalog: CatalogConfig{
			Source:      getEnv("CATALOG_SOURCE", "json"),
			Path:        getEnv("CATALOG_PATH", "./catalog.json"),
			DSN:         getEnv("CATALOG_DB_URL", ""),
			DialTimeout: getEnvAsDuration("CATALOG_DIAL_TIMEOUT", 3*time.Second),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "INFO"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
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

// ValidateConfig validates the loaded configuration
func (c *Config) Validate() error {
	if c.Pipeline.ManualReviewThreshold < 0 || c.Pipeline.ManualReviewThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "OCR_MANUAL_REVIEW_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Pipeline.AutoAcceptThreshold < 0 || c.Pipeline.AutoAcceptThreshold > 1 {
		return NewAppError("CONFIG_ERROR", "OCR_AUTO_ACCEPT_THRESHOLD must be in [0,1]", ErrInvalidInput)
	}
	if c.Pipeline.AutoAcceptThreshold < c.Pipeline.ManualReviewThreshold {
		return NewAppError("CONFIG_ERROR", "auto-accept threshold must not be below manual-review threshold", ErrInvalidInput)
	}
	if c.Pipeline.TotalsTolerancePercent < 0 {
		return NewAppError("CONFIG_ERROR", "OCR_TOTALS_TOLERANCE_PERCENT must be non-negative", ErrInvalidInput)
	}
	switch c.Catalog.Source {
	case "json", "sqlite":
		if c.Catalog.Path == "" {
			return NewAppError("CONFIG_ERROR", "CATALOG_PATH is required", ErrInvalidInput)
		}
	case "postgres":
		if c.Catalog.DSN == "" {
			return NewAppError("CONFIG_ERROR", "CATALOG_DB_URL is required", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "CATALOG_SOURCE must be one of: json | sqlite | postgres", ErrInvalidInput)
	}
	return nil
}
