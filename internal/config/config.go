package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	// Remote API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Session
	TokenPath string

	// Offline cache (production only)
	CacheDBPath string
	CacheTTL    time.Duration

	// Build environment, gates the offline cache
	Env string

	// Google Sheets export (optional)
	GoogleSpreadsheetID string
	GoogleSheetName     string

	LogLevel string
}

func Load() *Config {
	dataDir := defaultDataDir()

	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://127.0.0.1:8000"),
		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),

		TokenPath: getEnv("TOKEN_PATH", filepath.Join(dataDir, "token")),

		CacheDBPath: getEnv("CACHE_DB_PATH", filepath.Join(dataDir, "cache.db")),
		CacheTTL:    getEnvDuration("CACHE_TTL", 5*time.Minute),

		Env: getEnv("APP_ENV", EnvDevelopment),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errors []string

	if parsed, err := url.Parse(c.APIBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': %v", c.APIBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errors = append(errors, fmt.Sprintf("invalid API base URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
	} else if parsed.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': missing host", c.APIBaseURL))
	}

	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be '%s' or '%s'", c.Env, EnvDevelopment, EnvProduction))
	}

	if c.TokenPath == "" {
		errors = append(errors, "token path cannot be empty")
	}
	if c.CacheDBPath == "" {
		errors = append(errors, "cache database path cannot be empty")
	}

	if c.HTTPTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

// Production reports whether the offline cache layer should be active.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "controle-financeiro")
	}
	return ".controle-financeiro"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
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
