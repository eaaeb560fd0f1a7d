package app

import (
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/bookstore/pkg/jwtx"
)

type Config struct {
	JWTSecret string // Required: process-wide HS256 signing secret
	Issuer    string // Optional: issuer claim for tokens (default: bookstore-auth)

	TokenTTL        time.Duration // Optional: signed expiry on issued tokens (default: 72h)
	SessionTTL      time.Duration // Optional: sliding idle expiry on session sets (default: 24h)
	SessionCapacity int           // Optional: max concurrent sessions per identity (default: 3)

	KVDriver      string // Optional: key-value backend (redis, memory) (default: redis)
	RedisAddr     string // Optional: Redis address (default: localhost:6379)
	RedisPassword string // Optional: Redis password
	RedisDB       int    // Optional: Redis database number (default: 0)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./auth.db)
	PepperFile          string        // Optional: path to password hashing pepper file (default: ./pepper)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		Issuer:    getEnvOrDefault("AUTH_ISSUER", "bookstore-auth"),

		TokenTTL:        getEnvDurationOrDefault("AUTH_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		SessionTTL:      getEnvDurationOrDefault("AUTH_SESSION_TTL", 24*time.Hour),
		SessionCapacity: getEnvIntOrDefault("AUTH_SESSION_CAPACITY", 3),

		KVDriver:      getEnvOrDefault("AUTH_KV_DRIVER", "redis"),
		RedisAddr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvIntOrDefault("REDIS_DB", 0),

		DatabaseFile:        getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),
		PepperFile:          getEnvOrDefault("AUTH_PEPPER_FILE", "pepper"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer hours (for backwards compatibility)
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}

	return defaultValue
}
