package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (
	// DefaultSettingsPath is the agent settings file.
	DefaultSettingsPath = "~/.claude/settings.json"
	// DefaultRouterConfigPath is the router config file.
	DefaultRouterConfigPath = "~/.claude-code-router/config.json"

	appDir = "ccm"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	base, state := DefaultDirs()
	return &Config{
		BaseDir:          base,
		StateDir:         state,
		DatabasePath:     filepath.Join(base, "ccm.db"),
		LogLevel:         "info",
		SettingsPath:     DefaultSettingsPath,
		RouterConfigPath: DefaultRouterConfigPath,
	}
}

// DefaultDirs returns the data and state directories. CCM_HOME puts both
// under one directory; otherwise the XDG base directories are used.
func DefaultDirs() (base, state string) {
	if home := os.Getenv(EnvHome); home != "" {
		home = ExpandHome(home)
		return home, filepath.Join(home, "logs")
	}
	return filepath.Join(xdg.DataHome, appDir), filepath.Join(xdg.StateHome, appDir)
}
