package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	// HTTP server configuration
	HTTP HTTPConfig `yaml:"http"`

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// Feature flags
	Features FeatureFlags `yaml:"features"`
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds SQLite database configuration
type DatabaseConfig struct {
	// Path is the SQLite database file path. Empty means in-memory.
	Path string `yaml:"path"`
}

// FeatureFlags holds feature flag settings
type FeatureFlags struct {
	// StatsEnabled controls the /stats chart page
	StatsEnabled bool `yaml:"stats_enabled"`
	// ReleaseMode runs gin in release mode when true
	ReleaseMode bool `yaml:"release_mode"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{
			Host: getEnvString("AGENTX_HTTP_HOST", "0.0.0.0"),
			Port: getEnvInt("AGENTX_HTTP_PORT", 3000),
		},
		Database: DatabaseConfig{
			Path: getEnvString("AGENTX_DB_PATH", "./data/marketplace.db"),
		},
		Features: FeatureFlags{
			StatsEnabled: getEnvBool("AGENTX_FEATURE_STATS", true),
			ReleaseMode:  getEnvBool("AGENTX_RELEASE_MODE", false),
		},
	}

	return cfg, nil
}

// LoadFile loads configuration from environment variables and then
// overlays values from a YAML file. File values win over environment values.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// GetAddress returns the HTTP server address
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// Helper functions for environment variables
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
