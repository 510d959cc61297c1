// Package config loads the application configuration.
package config

import (
	"fmt"
	"os"
	"time"

	storage "stratum/internal/storage/config"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Storage storage.Config `yaml:"storage"`
	Logging LoggingConfig  `yaml:"logging"`
	Auth    AuthConfig     `yaml:"auth"`
	Access  AccessConfig   `yaml:"access"`
}

// AuthConfig configures token verification.
type AuthConfig struct {
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
	Issuer   string        `yaml:"issuer"`
}

// AccessConfig names the well-known identities the access-control layer
// consults.
type AccessConfig struct {
	AdminID     string   `yaml:"admin_id"`
	AnonymousID string   `yaml:"anonymous_id"`
	ManagerIDs  []string `yaml:"manager_ids"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Storage: storage.DefaultConfig(),
		Logging: DefaultLoggingConfig(),
		Auth: AuthConfig{
			TokenTTL: time.Hour,
			Issuer:   "stratum",
		},
		Access: AccessConfig{
			AdminID:     "admin",
			AnonymousID: "anonymous",
		},
	}
}

// Load builds the configuration: defaults -> file (optional) -> env
// overrides -> validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.Storage.ApplyEnvOverrides()

	if err := cfg.Storage.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}
