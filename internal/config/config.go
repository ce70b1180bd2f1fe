// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	Addr        string
	DataDir     string
	APIBaseURL  string
	JWTSecret   string
	TokenTTL    time.Duration
	SyncMinutes int

	PayfastPassphrase string
}

// Load reads configuration from the environment, consulting a .env file
// when one exists. JWT_SECRET is the only required value.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:              getEnv("ADDR", ":4000"),
		DataDir:           getEnv("DATA_DIR", "./data"),
		APIBaseURL:        getEnv("API_BASE_URL", "http://localhost:4000"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 7*24*time.Hour),
		SyncMinutes:       getEnvInt("SYNC_INTERVAL_MIN", 15),
		PayfastPassphrase: os.Getenv("PAYFAST_PASSPHRASE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
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
