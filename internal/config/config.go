package config

import (
	"os"
	"strconv"

	"orgrecon/domain/recon"
	"orgrecon/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Recon    recon.Config
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig holds the optional roster-archive connection settings
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8085"),
			GinMode: getEnvOrDefault("GIN_MODE", "release"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Recon: loadReconConfig(),
	}
	cfg.Database.Enabled = cfg.Database.URL != ""

	if err := validate(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// loadReconConfig starts from the production defaults and lets the
// environment override the knobs that vary between deployments.
func loadReconConfig() recon.Config {
	rc := recon.DefaultConfig()
	if dept := os.Getenv("TARGET_DEPARTMENT"); dept != "" {
		rc.Department = dept
	}
	rc.MinPeerGroup = getEnvIntOrDefault("MIN_PEER_GROUP", rc.MinPeerGroup)
	return rc
}

func validate(cfg *Config) error {
	if cfg.Recon.Department == "" {
		return errors.ConfigInvalid("TARGET_DEPARTMENT must not be empty")
	}
	if cfg.Recon.MinPeerGroup < 1 {
		return errors.ConfigInvalid("MIN_PEER_GROUP must be at least 1")
	}
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
