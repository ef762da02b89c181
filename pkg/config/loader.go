package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adhocore/jsonc"
	"github.com/goccy/go-yaml"
	"github.com/rovery/updatefeed/pkg/common"
)

// The prefix of all environment variables that override configuration values.
const envPrefix = "UPDATEFEED_"

// Load builds the configuration from an optional config file and the
// environment. Environment variables take precedence over file values.
// The returned configuration is already validated.
func Load(configPath string) (*Config, error) {
	config := &Config{
		Source:   common.SOURCE_TYPE_GITHUB,
		Interval: DefaultIntervalMinutes,
		Address:  DefaultAddress,
	}
	if configPath != "" {
		if err := loadFile(configPath, config); err != nil {
			return nil, err
		}
	}
	if err := applyEnvironment(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(configPath string, config *Config) error {
	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed reading the config file '%s': %w", configPath, err)
	}
	switch filepath.Ext(configPath) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, config); err != nil {
			return fmt.Errorf("failed parsing the config file '%s': %w", configPath, err)
		}
	case ".json", ".jsonc":
		// jsonc/json5 files are converted to plain json first
		j := jsonc.New()
		stripped := j.Strip(content)
		if err := json.Unmarshal(stripped, config); err != nil {
			return fmt.Errorf("failed parsing the config file '%s': %w", configPath, err)
		}
	default:
		return &common.ConfigurationError{Message: fmt.Sprintf("unsupported config file format '%s'", filepath.Ext(configPath))}
	}
	return nil
}

func applyEnvironment(config *Config) error {
	if value := os.Getenv(envPrefix + "SOURCE"); value != "" {
		config.Source = common.SourceType(value)
	}
	if value := os.Getenv(envPrefix + "ENDPOINT"); value != "" {
		config.Endpoint = value
	}
	if value := os.Getenv(envPrefix + "ACCOUNT"); value != "" {
		config.Account = value
	}
	if value := os.Getenv(envPrefix + "REPOSITORY"); value != "" {
		config.Repository = value
	}
	if value := os.Getenv(envPrefix + "INTERVAL"); value != "" {
		interval, err := strconv.Atoi(value)
		if err != nil {
			return &common.ConfigurationError{Message: fmt.Sprintf("the interval '%s' is not a number", value)}
		}
		config.Interval = interval
	}
	if value := os.Getenv(envPrefix + "TOKEN"); value != "" {
		config.Token = value
	}
	if value := os.Getenv(envPrefix + "URL"); value != "" {
		config.URL = value
	}
	if value := os.Getenv(envPrefix + "ADDRESS"); value != "" {
		config.Address = value
	}
	return nil
}
