// Package config loads server configuration from environment variables.
//
// Every deployment-specific value (port, database path, signing secret,
// allowed CORS origin) comes from the environment with a development
// default — nothing is hard-coded into business logic. A .env file is
// loaded by main before Load runs.
package config

import (
	"log/slog"
	"os"
	"time"
)

const devSecret = "dev-secret-change-in-production"

type Config struct {
	Port       string
	Env        string
	DBPath     string
	JWTSecret  string
	JWTExpiry  time.Duration
	CORSOrigin string
}

func Load() Config {
	cfg := Config{
		Port:       getEnv("PORT", "8080"),
		Env:        getEnv("ENV", "development"),
		DBPath:     getEnv("DB_PATH", "data/jobboard.db"),
		JWTSecret:  getEnv("JWT_SECRET", devSecret),
		JWTExpiry:  24 * time.Hour,
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}

	if d, err := time.ParseDuration(getEnv("JWT_EXPIRY", "")); err == nil && d > 0 {
		cfg.JWTExpiry = d
	}

	if cfg.Env == "production" && cfg.JWTSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
