package config

import (
	"os"
	"strconv"
	"strings"

	"ethnicityfacts/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	Lookups  LookupsConfig
	Log      LogConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string // postgres or sqlite
	URL    string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	MaxUploadMB int
}

// StorageConfig selects where uploaded and standardised files are kept
type StorageConfig struct {
	Driver      string // local or s3
	Path        string // base directory for local storage
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	// optional static credentials, otherwise the default AWS chain
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// LookupsConfig points at the lookup catalogue
type LookupsConfig struct {
	File string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: loadDatabaseConfig(),
		Server:   loadServerConfig(),
		Storage:  loadStorageConfig(),
		Lookups:  LookupsConfig{File: getEnvOrDefault("LOOKUPS_FILE", "config/lookups.yaml")},
		Log:      LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "postgres")),
		URL:    os.Getenv("DATABASE_URL"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 20),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Driver:      strings.ToLower(getEnvOrDefault("STORAGE_DRIVER", "local")),
		Path:        getEnvOrDefault("STORAGE_PATH", "uploads"),
		S3Bucket:    os.Getenv("S3_BUCKET"),
		S3Region:    getEnvOrDefault("S3_REGION", "eu-west-2"),
		S3Endpoint:  os.Getenv("S3_ENDPOINT"),
		S3PathStyle: getEnvBoolOrDefault("S3_PATH_STYLE", false),

		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
	}
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case "postgres", "sqlite":
	default:
		return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite, got " + config.Database.Driver)
	}
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	switch config.Storage.Driver {
	case "local":
	case "s3":
		if config.Storage.S3Bucket == "" {
			return errors.ConfigInvalid("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
		if (config.Storage.S3AccessKeyID == "") != (config.Storage.S3SecretAccessKey == "") {
			return errors.ConfigInvalid("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	default:
		return errors.ConfigInvalid("STORAGE_DRIVER must be local or s3, got " + config.Storage.Driver)
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
