package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Development fallbacks. Production refuses to start with these.
const (
	devCSRFKey    = "hospitalcms-dev-csrf-key-32bytes"
	devSessionKey = "hospitalcms-dev-session-key"
)

var (
	ErrWeakCSRFKey    = errors.New("HOSPITAL_CSRF_KEY must be at least 32 bytes in production")
	ErrDevSessionKey  = errors.New("HOSPITAL_SESSION_KEY must be set in production")
	ErrMissingBaseURL = errors.New("HOSPITAL_API_BASE_URL cannot be empty")
	ErrBadRateLimit   = errors.New("HOSPITAL_RATE_LIMIT must be a positive number of requests per minute")
)

// Config holds application configuration
type Config struct {
	Addr          string
	Env           string
	LogLevel      string
	APIBaseURL    string
	APITimeout    time.Duration
	DBPath        string
	CSRFKey       string
	SessionKey    string
	SessionTTL    time.Duration
	RateLimit     int
	ResendKey     string
	ResendFrom    string
	SlowRequestMs int
	SlowQueryMs   int
}

// Load reads configuration from the environment, falling back to development defaults.
// PRE: .env, if any, has already been loaded into the environment
// POST: Every field holds a usable value
func Load() *Config {
	return &Config{
		Addr:          getEnv("HOSPITAL_ADDR", ":8080"),
		Env:           getEnv("HOSPITAL_ENV", "development"),
		LogLevel:      getEnv("HOSPITAL_LOG_LEVEL", "info"),
		APIBaseURL:    getEnv("HOSPITAL_API_BASE_URL", "http://localhost:8081"),
		APITimeout:    getEnvAsDuration("HOSPITAL_API_TIMEOUT", 10*time.Second),
		DBPath:        getEnv("HOSPITAL_DB_PATH", "hospitalcms.db"),
		CSRFKey:       getEnv("HOSPITAL_CSRF_KEY", devCSRFKey),
		SessionKey:    getEnv("HOSPITAL_SESSION_KEY", devSessionKey),
		SessionTTL:    getEnvAsDuration("HOSPITAL_SESSION_TTL", 24*time.Hour),
		RateLimit:     getEnvAsInt("HOSPITAL_RATE_LIMIT", 20),
		ResendKey:     getEnv("HOSPITAL_RESEND_KEY", ""),
		ResendFrom:    getEnv("HOSPITAL_RESEND_FROM", "Hospital CMS <noreply@hospitalcms.local>"),
		SlowRequestMs: getEnvAsInt("HOSPITAL_SLOW_REQUEST_MS", 500),
		SlowQueryMs:   getEnvAsInt("HOSPITAL_SLOW_QUERY_MS", 50),
	}
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks the settings the server cannot run without.
// POST: Returns nil if the configuration is usable in c.Env
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return ErrMissingBaseURL
	}
	if c.RateLimit <= 0 {
		return ErrBadRateLimit
	}
	if !c.IsProduction() {
		return nil
	}
	if len(c.CSRFKey) < 32 || c.CSRFKey == devCSRFKey {
		return ErrWeakCSRFKey
	}
	if c.SessionKey == devSessionKey {
		return ErrDevSessionKey
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
