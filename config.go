package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries the runtime configuration for every surface. The API
// key is empty by default and only ever comes from an explicit flag, the
// GEMINI_API_KEY environment variable, or the config file.
type Config struct {
	APIKey                string `yaml:"api_key"`
	Model                 string `yaml:"model"`
	BaseURL               string `yaml:"base_url"`
	HistoryLimit          int    `yaml:"history_limit"`
	CommandTimeoutSeconds int    `yaml:"command_timeout_seconds"`
	SessionTTLMinutes     int    `yaml:"session_ttl_minutes"`
}

// DefaultConfig returns the built-in defaults, with no credential set.
func DefaultConfig() *Config {
	return &Config{
		Model:                 defaultModel,
		BaseURL:               defaultBaseURL,
		HistoryLimit:          500,
		CommandTimeoutSeconds: 30,
		SessionTTLMinutes:     30,
	}
}

// LoadConfig reads ~/.config/aiterm/config.yaml over the defaults, then
// applies the GEMINI_API_KEY environment variable. A missing file is not
// an error; a malformed one is.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	dir, err := configDir()
	if err == nil {
		path := filepath.Join(dir, "config.yaml")
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	return cfg, nil
}

// CommandTimeout returns the fallback subprocess bound as a duration.
func (c *Config) CommandTimeout() time.Duration {
	if c.CommandTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.CommandTimeoutSeconds) * time.Second
}

// SessionTTL returns the web session idle expiry; zero disables eviction.
func (c *Config) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// configDir returns ~/.config/aiterm, creating it if needed.
func configDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.Getenv("HOME")
	}
	dir := filepath.Join(homeDir, ".config", "aiterm")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %v", err)
	}
	return dir, nil
}
