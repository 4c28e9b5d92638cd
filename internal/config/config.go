package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// File-backed data: rules table, demo listings, sqlite database.
	DataDir      string
	DatabasePath string

	// Per-provider HTTP timeouts.
	GeocoderTimeout time.Duration
	CensusTimeout   time.Duration
	HUDTimeout      time.Duration
	SMSTimeout      time.Duration
	EmailTimeout    time.Duration

	CensusCacheTTL time.Duration

	// Number of synthetic markers decorating the risk map view.
	MapMarkerCount int

	// Explanation rewriting (feature-flagged via OPENAI_API_KEY).
	OpenAIAPIKey   string
	ExplainModel   string
	ExplainEnabled bool

	// Email confirmations (feature-flagged via RESEND_API_KEY).
	ResendAPIKey string
	EmailFrom    string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	geocoderTimeout, err := parseDuration("GEOCODER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	censusTimeout, err := parseDuration("CENSUS_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	hudTimeout, err := parseDuration("HUD_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	smsTimeout, err := parseDuration("SMS_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	emailTimeout, err := parseDuration("EMAIL_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cacheTTL, err := parseDuration("CENSUS_CACHE_TTL", "15m")
	if err != nil {
		return nil, err
	}

	openAIKey := os.Getenv("OPENAI_API_KEY")
	explainEnabled := openAIKey != ""
	if v := os.Getenv("EXPLAIN_ENABLED"); v != "" {
		explainEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:      envOrDefault("DATA_DIR", "data"),
		DatabasePath: envOrDefault("DATABASE_PATH", "data/alert.db"),

		GeocoderTimeout: geocoderTimeout,
		CensusTimeout:   censusTimeout,
		HUDTimeout:      hudTimeout,
		SMSTimeout:      smsTimeout,
		EmailTimeout:    emailTimeout,
		CensusCacheTTL:  cacheTTL,
		MapMarkerCount:  parseIntOrDefault("MAP_MARKER_COUNT", 12),

		OpenAIAPIKey:   openAIKey,
		ExplainModel:   envOrDefault("EXPLAIN_MODEL", "gpt-4o-mini"),
		ExplainEnabled: explainEnabled,

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    envOrDefault("EMAIL_FROM", "First-Mover Alert <onboarding@resend.dev>"),
	}

	if cfg.DataDir == "" {
		return nil, errors.New("DATA_DIR is required")
	}
	if cfg.DatabasePath == "" {
		return nil, errors.New("DATABASE_PATH is required")
	}
	if cfg.ExplainEnabled && cfg.OpenAIAPIKey == "" {
		return nil, errors.New("EXPLAIN_ENABLED is true but OPENAI_API_KEY is not set")
	}

	return cfg, nil
}

// RulesPath is the rules-table override file inside DataDir. Its absence is
// not an error; the engine substitutes a built-in default.
func (c *Config) RulesPath() string {
	return c.DataDir + "/risk_rules.json"
}

// MockListingsPath is the demo listings seed file inside DataDir.
func (c *Config) MockListingsPath() string {
	return c.DataDir + "/mock_listings.json"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseIntOrDefault(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
