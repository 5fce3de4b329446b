package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/lumistore/catalog-engine/internal/upstream"
)

const (
	AppName     = "catalog-engine"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from the config file in the user's
// config directory. Errors are ignored since the file may not exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// BaseURL returns the upstream product API base URL.
func BaseURL() string {
	if v := os.Getenv("CATALOG_API_BASE_URL"); v != "" {
		return v
	}
	return upstream.DefaultBaseURL
}

// LogLevel returns the configured log level name, defaulting to info.
func LogLevel() string {
	if v := os.Getenv("CATALOG_LOG_LEVEL"); v != "" {
		return v
	}
	return "info"
}
