package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string

	// Classifier service, tried in order
	ClassifierEndpoints []string
	ClassifierTimeout   time.Duration // per attempt

	// Observer
	SettleDelay   time.Duration
	MinTextLength int // runes
	MaxTextLength int // runes kept after extraction

	// Cache
	CacheBackend string // "memory" or "redis"
	RedisURL     string

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Endpoint prober
	ProbeInterval time.Duration

	// Panel CLI
	CoordinatorURL string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring .env file: %v", err)
	}

	return &Config{
		Env:                 getEnv("ENV", "development"),
		ServerAddr:          getEnv("SERVER_ADDR", ":3000"),
		ClassifierEndpoints: splitList(getEnv("CLASSIFIER_ENDPOINTS", "http://127.0.0.1:8000,http://localhost:8000")),
		ClassifierTimeout:   getDuration("CLASSIFIER_TIMEOUT", 8*time.Second),
		SettleDelay:         getDuration("SETTLE_DELAY", 2*time.Second),
		MinTextLength:       getInt("MIN_TEXT_LENGTH", 5),
		MaxTextLength:       getInt("MAX_TEXT_LENGTH", 2000),
		CacheBackend:        strings.ToLower(getEnv("CACHE_BACKEND", CacheMemory)),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		CORSOrigins:         getEnv("CORS_ORIGINS", ""),
		ProbeInterval:       getPositiveDuration("PROBE_INTERVAL", 30*time.Second),
		CoordinatorURL:      getEnv("COORDINATOR_URL", "http://localhost:3000"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		log.Printf("Invalid %s %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

// getPositiveDuration is getDuration for values that must be above zero.
func getPositiveDuration(key string, fallback time.Duration) time.Duration {
	d := getDuration(key, fallback)
	if d <= 0 {
		log.Printf("Invalid %s %q, using %s", key, os.Getenv(key), fallback)
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Printf("Invalid %s %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// CORSOriginList returns the configured CORS origins.
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

// Apply overlays non-zero YAML settings onto c. Environment variables that
// were set explicitly keep precedence.
func (c *Config) Apply(y *YAMLConfig) {
	if y == nil {
		return
	}
	if len(y.Classifier.Endpoints) > 0 && os.Getenv("CLASSIFIER_ENDPOINTS") == "" {
		c.ClassifierEndpoints = y.Classifier.Endpoints
	}
	if y.Classifier.Timeout > 0 && os.Getenv("CLASSIFIER_TIMEOUT") == "" {
		c.ClassifierTimeout = y.Classifier.Timeout
	}
	if y.Observer.SettleDelay > 0 && os.Getenv("SETTLE_DELAY") == "" {
		c.SettleDelay = y.Observer.SettleDelay
	}
	if y.Observer.MinTextLength > 0 && os.Getenv("MIN_TEXT_LENGTH") == "" {
		c.MinTextLength = y.Observer.MinTextLength
	}
	if y.Observer.MaxTextLength > 0 && os.Getenv("MAX_TEXT_LENGTH") == "" {
		c.MaxTextLength = y.Observer.MaxTextLength
	}
}
