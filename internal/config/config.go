package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all service settings, populated from environment variables.
type AppConfig struct {
	Port      string
	LogLevel  string
	LogFormat string

	// DataDir holds neighborhoods.json and historical_outages.json.
	DataDir string

	// Both credentials are optional; absence routes requests through the
	// respective fallback paths rather than failing startup.
	WeatherAPIKey string
	GitHubToken   string

	// Outbound call budgets.
	WeatherTimeout time.Duration
	ExplainTimeout time.Duration

	ShutdownTimeout time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:          getenvDefault("PORT", "8080"),
		LogLevel:      getenvDefault("LOG_LEVEL", "info"),
		LogFormat:     getenvDefault("LOG_FORMAT", "json"),
		DataDir:       getenvDefault("DATA_DIR", "data"),
		WeatherAPIKey: os.Getenv("WEATHER_API_KEY"),
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
	}

	var err error
	if cfg.WeatherTimeout, err = getenvDuration("WEATHER_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ExplainTimeout, err = getenvDuration("EXPLAIN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = getenvDuration("SHUTDOWN_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, getenvDefault(key, def))
	}
	return d, nil
}
