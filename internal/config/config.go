package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all client configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Portal backend
	PortalAPIURL string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration

	// Cache
	CacheTTL time.Duration

	// Local state
	StateDir string // durable credential store location
	Lang     string // default chat language: en, bn, hi

	// Observability
	LogLevel     string
	OTLPEndpoint string // empty disables trace export
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		PortalAPIURL: getEnv("PORTAL_API_URL", "http://localhost:8000"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 2),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		StateDir: getEnv("TUB_STATE_DIR", defaultStateDir()),
		Lang:     getEnv("TUB_LANG", "en"),

		LogLevel:     getEnv("LOG_LEVEL", "warn"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

// defaultStateDir resolves to ~/.config/tub-portal (or the platform
// equivalent), falling back to a dotdir in the working directory when the
// user config dir cannot be determined.
func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".tub-portal"
	}
	return filepath.Join(base, "tub-portal")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
