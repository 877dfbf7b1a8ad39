package config

import (
	"os"
	"strconv"

	"biosense/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Resolver ResolverConfig
	Analyzer AnalyzerConfig
	Capture  CaptureConfig
	Import   ImportConfig
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory stores.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// ResolverConfig holds the causality lifecycle horizons
type ResolverConfig struct {
	ResolutionDays   int
	ExpiryDays       int
	MaxParallelUsers int
}

// AnalyzerConfig holds profile-building thresholds
type AnalyzerConfig struct {
	MinSamples            int
	FullConfidenceSamples int
	ProfileCacheSize      int
}

// CaptureConfig holds the declared habitual sleep time (HH:MM)
type CaptureConfig struct {
	SleepHour   int
	SleepMinute int
}

// ImportConfig holds file import settings
type ImportConfig struct {
	HistoryFile string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Server:   ServerConfig{Port: envOr("PORT", "8080")},
		Resolver: ResolverConfig{
			ResolutionDays:   envInt("RESOLUTION_DAYS", 1),
			ExpiryDays:       envInt("EXPIRY_DAYS", 7),
			MaxParallelUsers: envInt("RESOLVER_PARALLELISM", 8),
		},
		Analyzer: AnalyzerConfig{
			MinSamples:            envInt("MIN_SAMPLES", 5),
			FullConfidenceSamples: envInt("FULL_CONFIDENCE_SAMPLES", 20),
			ProfileCacheSize:      envInt("PROFILE_CACHE_SIZE", 1024),
		},
		Capture: CaptureConfig{
			SleepHour:   envInt("SLEEP_HOUR", 23),
			SleepMinute: envInt("SLEEP_MINUTE", 0),
		},
		Import: ImportConfig{HistoryFile: os.Getenv("HISTORY_FILE")},
	}

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Resolver.ResolutionDays < 1 {
		return errors.New(errors.CodeBadInput, "RESOLUTION_DAYS must be at least 1")
	}
	if cfg.Resolver.ExpiryDays <= cfg.Resolver.ResolutionDays {
		return errors.New(errors.CodeBadInput, "EXPIRY_DAYS must exceed RESOLUTION_DAYS")
	}
	if cfg.Analyzer.MinSamples < 2 {
		return errors.New(errors.CodeBadInput, "MIN_SAMPLES must be at least 2")
	}
	if cfg.Capture.SleepHour < 0 || cfg.Capture.SleepHour > 23 {
		return errors.New(errors.CodeBadInput, "SLEEP_HOUR must be 0-23")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
