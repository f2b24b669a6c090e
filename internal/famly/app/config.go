package app

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/famlyapp/famly/pkg/jwtx"
)

type Config struct {
	SessionSecret string        // Required: HMAC secret for session tokens
	Issuer        string        // Optional: issuer claim for tokens (default: famly-api)
	SessionTTL    time.Duration // Optional: session token lifetime (default: 30 days)

	DatabaseFile        string        // Optional: path to SQLite database file (default: ./famly.db)
	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 3000)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads configuration from the environment, picking up a local
// .env file first when one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		SessionSecret:       os.Getenv("FAMLY_SESSION_SECRET"),
		Issuer:              getEnvOrDefault("FAMLY_ISSUER", "famly-api"),
		SessionTTL:          getEnvDurationOrDefault("FAMLY_SESSION_TTL", jwtx.DefaultSessionTTL),
		DatabaseFile:        getEnvOrDefault("FAMLY_DATABASE_FILE", "famly.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 3000),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	return cfg
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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
