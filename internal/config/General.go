package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// ArenaToken authenticates the battle-arena caller. Only requests
	// presenting this token may record results or settle battles.
	ArenaToken string

	// ResolverBps is the default resolver cut in basis points, applied when a
	// battle does not carry its own.
	ResolverBps uint64

	// WebPort is the port the dashboard/API server listens on.
	WebPort string

	// Database connection parameters.
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. The arena token and database credentials are required;
// the rest have sane defaults.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	ArenaToken, err = getEnv("ARENA_TOKEN")
	if err != nil {
		return err
	}

	ResolverBps = getEnvAsUint64("RESOLVER_BPS", 100)
	if ResolverBps > 10_000 {
		// the splitter saturates above 100%, but a default that routes the
		// whole pool to the resolver is a misconfiguration, not an edge case
		return errors.New("RESOLVER_BPS must not exceed 10000")
	}

	WebPort = getEnvWithDefault("WEB_PORT", "8080")

	DBHost = getEnvWithDefault("DB_HOST", "localhost")
	DBPort = getEnvAsInt("DB_PORT", 5432)
	DBUser, err = getEnv("DB_USER")
	if err != nil {
		return err
	}
	DBPassword = os.Getenv("DB_PASSWORD")
	DBName, err = getEnv("DB_NAME")
	if err != nil {
		return err
	}
	DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	log.Debug().
		Uint64("ResolverBps", ResolverBps).
		Str("WebPort", WebPort).
		Str("DBHost", DBHost).
		Str("DBName", DBName).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvWithDefault retrieves a string environment variable with a fallback.
func getEnvWithDefault(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// getEnvAsUint64 retrieves an environment variable as a uint64 with a fallback.
func getEnvAsUint64(key string, fallback uint64) uint64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	value, err := strconv.ParseUint(valueStr, 10, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Msg("Invalid uint64 environment variable, using default")
		return fallback
	}
	return value
}

// getEnvAsInt retrieves an environment variable as an int with a fallback.
func getEnvAsInt(key string, fallback int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists || valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Msg("Invalid int environment variable, using default")
		return fallback
	}
	return value
}
