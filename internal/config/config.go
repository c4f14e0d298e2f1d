package config

import (
	"os"
	"strconv"
	"time"

	"annexval/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server  ServerConfig
	Session SessionConfig
	Upload  UploadConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// SessionConfig bounds the in-memory session registry
type SessionConfig struct {
	MaxSessions     int
	TTL             time.Duration
	SweepInterval   time.Duration
	ValidationSlots int64
}

// UploadConfig limits workbook uploads
type UploadConfig struct {
	MaxUploadBytes int64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("PORT", "8080"),
			ShutdownTimeout: getEnvDurationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			MaxSessions:     getEnvIntOrDefault("MAX_SESSIONS", 100),
			TTL:             getEnvDurationOrDefault("SESSION_TTL", 30*time.Minute),
			SweepInterval:   getEnvDurationOrDefault("SWEEP_INTERVAL", 5*time.Minute),
			ValidationSlots: getEnvInt64OrDefault("VALIDATION_SLOTS", 4),
		},
		Upload: UploadConfig{
			MaxUploadBytes: getEnvInt64OrDefault("MAX_UPLOAD_BYTES", 20<<20), // 20 MiB
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.Session.MaxSessions <= 0 {
		return errors.ConfigInvalid("MAX_SESSIONS must be positive")
	}
	if config.Session.ValidationSlots <= 0 {
		return errors.ConfigInvalid("VALIDATION_SLOTS must be positive")
	}
	if config.Upload.MaxUploadBytes <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_BYTES must be positive")
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
