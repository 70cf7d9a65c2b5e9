package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// GitHub. Token is optional: unauthenticated requests work but are
	// subject to much stricter rate limits.
	GitHubToken string

	// Summarization
	MaxReposForLanguageSampling int
	EventPages                  int

	// API Server
	APIPort string
	APIHost string

	// CLI
	APIEndpoint string
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	return &Config{
		GitHubToken:                 getEnv("GITHUB_TOKEN", ""),
		MaxReposForLanguageSampling: getEnvInt("MAX_REPOS", 50),
		EventPages:                  getEnvInt("EVENT_PAGES", 3),
		APIPort:                     getEnv("API_PORT", "8080"),
		APIHost:                     getEnv("API_HOST", "localhost"),
		APIEndpoint:                 getEnv("API_ENDPOINT", "http://localhost:8080"),
	}, nil
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MaxReposForLanguageSampling <= 0 {
		return &ConfigError{Field: "MAX_REPOS", Message: "must be a positive integer"}
	}
	if c.EventPages <= 0 {
		return &ConfigError{Field: "EVENT_PAGES", Message: "must be a positive integer"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
