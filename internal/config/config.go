// Package config centralizes environment configuration. A .env file in
// the working directory is loaded when present; real environment
// variables win over it.
package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                  string
	DBPath                string
	CORSAllowedOrigins    []string
	ScannerBackendURL     string
	MarketRefreshInterval time.Duration
}

func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		DBPath:                getEnv("DB_PATH", "./card_vault.db"),
		ScannerBackendURL:     os.Getenv("SCANNER_BACKEND_URL"),
		MarketRefreshInterval: getDuration("MARKET_REFRESH_INTERVAL", 5*time.Minute),
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		cfg.CORSAllowedOrigins = strings.Split(origins, ",")
	} else {
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
