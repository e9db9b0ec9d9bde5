package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	DatabaseURL     string `yaml:"databaseURL" validate:"required"`
	HTTPAddr        string `yaml:"httpAddr,omitempty"`
	AMQPURL         string `yaml:"amqpURL,omitempty"`
	CutoffRule      string `yaml:"cutoffRule" validate:"required"`
	CacheDir        string `yaml:"cacheDir,omitempty"`
	GmailUserID     string `yaml:"gmailUserID,omitempty"`
	GmailSender     string `yaml:"gmailSender,omitempty"`
	ReportRecipient string `yaml:"reportRecipient,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from shiftledger_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates the configuration with an environment suffix
// For example, env="test" will look for "shiftledger_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks the cutoff rule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, err := rrule.StrToRRuleSet(cfg.CutoffRule); err != nil {
		return fmt.Errorf("invalid cutoffRule: %w", err)
	}

	return nil
}

// findConfigFile searches for shiftledger_config.yaml in current directory and home directory
// If env is provided, it adds it as an extension (e.g., "shiftledger_config.test.yaml")
func findConfigFile(env string) (string, error) {
	configFileName := "shiftledger_config.yaml"
	if env != "" {
		configFileName = "shiftledger_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
