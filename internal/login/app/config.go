package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseFile string // Optional: path to SQLite database file (default: ./login.db)

	TokenURL     string // Required: authorization server token endpoint
	ClientID     string // Required: OAuth2 client id registered with the authorization server
	ClientSecret string // Optional: client secret for confidential clients
	TrustedKey   string // Required: shared credential for webhook relays

	SessionGracePeriod time.Duration // Optional: margin subtracted from token lifetimes (default: 30s)
	BcryptCost         int           // Optional: bcrypt work factor (default: 10)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		DatabaseFile: getEnvOrDefault("LOGIN_DATABASE_FILE", "login.db"),

		TokenURL:     os.Getenv("AUTHZ_TOKEN_URL"),
		ClientID:     os.Getenv("AUTHZ_CLIENT_ID"),
		ClientSecret: os.Getenv("AUTHZ_CLIENT_SECRET"),
		TrustedKey:   os.Getenv("TRUSTED_KEY"),

		SessionGracePeriod: getEnvDurationOrDefault("SESSION_GRACE_PERIOD", 30*time.Second),
		BcryptCost:         getEnvIntOrDefault("BCRYPT_COST", 10),

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

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are taken as seconds, matching older deployments.
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
