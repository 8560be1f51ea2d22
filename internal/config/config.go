package config

import (
	"os"
	"strconv"
	"time"

	"drawdock/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Uploads  UploadConfig
	Funding  FundingConfig
	Ingest   IngestConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// UploadConfig holds spreadsheet upload settings
type UploadConfig struct {
	MaxFileSize int64
	Dir         string // uploads are kept here so overrides can re-read them
}

// FundingConfig holds downstream funding workflow settings
type FundingConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// IngestConfig holds ingestion heuristics settings
type IngestConfig struct {
	VocabularyFile string // optional YAML keyword override
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	dbConfig, err := loadDatabaseConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load database configuration")
	}
	config.Database = *dbConfig

	config.Server = ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}

	config.Uploads = UploadConfig{
		MaxFileSize: int64(getEnvIntOrDefault("MAX_UPLOAD_BYTES", 50*1024*1024)),
		Dir:         getEnvOrDefault("UPLOAD_DIR", "uploads/imports"),
	}

	config.Funding = FundingConfig{
		BaseURL: getEnvOrDefault("FUNDING_BASE_URL", ""),
		APIKey:  getEnvOrDefault("FUNDING_API_KEY", ""),
		Timeout: time.Duration(getEnvIntOrDefault("FUNDING_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	config.Ingest = IngestConfig{
		VocabularyFile: getEnvOrDefault("INGEST_VOCAB_FILE", ""),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() (*DatabaseConfig, error) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	return &DatabaseConfig{
		URL:     url,
		SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
	}, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("database URL is required")
	}
	if config.Uploads.MaxFileSize <= 0 {
		return errors.ConfigInvalid("max upload size must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
