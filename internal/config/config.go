package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the dashboard service.
type Config struct {
	// Service addresses
	HTTPPort    string
	HealthPort  string
	MetricsPort string
	NatsURL     string
	RobotAPIURL string

	// Image fetch retry policy
	FetchMaxAttempts  int
	FetchRetryDelayMS int

	// Substitute coordinate for the robot's (0,0) missing-GPS placeholder
	FallbackLat float64
	FallbackLng float64
}

// Load reads configuration from environment variables and .env file.
func Load() (*Config, error) {
	// Try multiple .env locations
	envPaths := []string{
		".env",
		"../.env",
		"/app/.env", // Docker
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded config from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Printf("No .env file found, using environment variables")
	}

	config := &Config{
		HTTPPort:    getEnvOrDefault("HTTP_PORT", "8000"),
		HealthPort:  getEnvOrDefault("HEALTH_PORT", "8082"),
		MetricsPort: getEnvOrDefault("METRICS_PORT", "9090"),
		NatsURL:     getEnvOrDefault("NATS_URL", "nats://localhost:4222"),
		RobotAPIURL: getEnvOrDefault("ROBOT_API_URL", "http://192.168.186.239:5000"),

		FetchMaxAttempts:  parseIntOrDefault("FETCH_MAX_ATTEMPTS", 3),
		FetchRetryDelayMS: parseIntOrDefault("FETCH_RETRY_DELAY_MS", 1000),

		FallbackLat: parseFloatOrDefault("FALLBACK_LAT", 12.97641),
		FallbackLng: parseFloatOrDefault("FALLBACK_LNG", 77.48362),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT is required")
	}

	if c.NatsURL == "" {
		return fmt.Errorf("NATS_URL is required")
	}

	if c.RobotAPIURL == "" {
		return fmt.Errorf("ROBOT_API_URL is required")
	}

	if c.FetchMaxAttempts < 1 {
		return fmt.Errorf("FETCH_MAX_ATTEMPTS must be at least 1")
	}

	if c.FetchRetryDelayMS < 0 {
		return fmt.Errorf("FETCH_RETRY_DELAY_MS must not be negative")
	}

	return nil
}

// Helper functions
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func parseFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.ParseFloat(value, 64); err == nil {
			return result
		}
	}
	return defaultValue
}
