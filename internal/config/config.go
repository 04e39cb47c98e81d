// Package config loads application configuration from the environment.
//
// A .env file in the working directory is loaded first (via godotenv) so
// local development doesn't need exported shell variables; real environment
// variables still win because godotenv.Load never overrides existing ones.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs to start.
type Config struct {
	Port      int    // HTTP listen port
	DBPath    string // path to the SQLite database file
	JWTSecret string // HMAC secret for signing tokens (required)
	UploadDir string // directory where uploaded images are stored
}

// Load reads configuration from the environment with sensible defaults for
// everything except JWT_SECRET, which has no safe default.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{
		Port:      5000,
		DBPath:    "data/restro.db",
		UploadDir: "uploads",
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.UploadDir = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required (try JWT_SECRET=$(openssl rand -hex 32))")
	}

	return cfg, nil
}
