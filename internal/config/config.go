// Package config handles application configuration management.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvHome             = "CCM_HOME"
	EnvDBPath           = "CCM_DB_PATH"
	EnvLogLevel         = "CCM_LOG_LEVEL"
	EnvDebug            = "CCM_DEBUG"
	EnvSettingsPath     = "CCM_SETTINGS_PATH"
	EnvRouterConfigPath = "CCM_ROUTER_CONFIG_PATH"
)

// Config holds all application configuration.
type Config struct {
	// Directory holding the database and config.yaml.
	BaseDir string
	// Directory holding the log file.
	StateDir string

	// Database file; defaults to <BaseDir>/ccm.db.
	DatabasePath string

	LogLevel string
	// Debug turns on SQL logging.
	Debug bool

	// Settings file used until a current path is recorded in the database.
	SettingsPath string
	// Router config file used unless a custom path is recorded in the database.
	RouterConfigPath string
}

// fileConfig is the shape of config.yaml. Empty fields keep the defaults.
type fileConfig struct {
	DatabasePath     string `yaml:"database_path"`
	LogLevel         string `yaml:"log_level"`
	Debug            *bool  `yaml:"debug"`
	SettingsPath     string `yaml:"settings_path"`
	RouterConfigPath string `yaml:"router_config_path"`
}

// Load builds the configuration from defaults, config.yaml and the
// environment, in that order.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFile(GetPaths(cfg).Config); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	// Ensure directories exist
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.DatabasePath != "" {
		c.DatabasePath = ExpandHome(fc.DatabasePath)
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.SettingsPath != "" {
		c.SettingsPath = fc.SettingsPath
	}
	if fc.RouterConfigPath != "" {
		c.RouterConfigPath = fc.RouterConfigPath
	}
	return nil
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DatabasePath = ExpandHome(v)
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Debug = b
		}
	}
	if v := os.Getenv(EnvSettingsPath); v != "" {
		c.SettingsPath = v
	}
	if v := os.Getenv(EnvRouterConfigPath); v != "" {
		c.RouterConfigPath = v
	}
	if c.Debug && os.Getenv(EnvLogLevel) == "" {
		c.LogLevel = "debug"
	}
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{cfg.BaseDir, cfg.StateDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
