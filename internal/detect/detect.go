// Package detect checks for and installs the predefined tool configurations.
package detect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/router"
	"github.com/asteroid-belt/ccm/internal/settings"
)

// Feature ids.
const (
	FeatureClaudeCode   = "claude-code"
	FeatureClaudeRouter = "claude-router"
)

// ErrUnknownFeature is returned by Install for ids it does not know.
var ErrUnknownFeature = errors.New("unknown feature")

// FeatureStatus describes one preset.
type FeatureStatus struct {
	FeatureID        string `json:"feature_id"`
	IsInstalled      bool   `json:"is_installed"`
	InstallationPath string `json:"installation_path"`
	Description      string `json:"description"`
	CanInstall       bool   `json:"can_install"`
	CommandPath      string `json:"command_path,omitempty"` // CLI binary if found in PATH
}

type feature struct {
	id          string
	description string
	command     string
	path        string
	content     func() ([]byte, error)
}

// Detector checks presets at the given file locations.
type Detector struct {
	features []feature
}

// New creates a Detector for the given settings and router config paths.
// Empty paths use the defaults.
func New(settingsPath, routerPath string) *Detector {
	if settingsPath == "" {
		settingsPath = config.DefaultSettingsPath
	}
	if routerPath == "" {
		routerPath = config.DefaultRouterConfigPath
	}
	return &Detector{features: []feature{
		{
			id:          FeatureClaudeCode,
			description: "Claude Code CLI tool configuration",
			command:     "claude",
			path:        config.ExpandHome(settingsPath),
			content:     settingsPreset,
		},
		{
			id:          FeatureClaudeRouter,
			description: "Claude Code Router configuration",
			command:     "ccr",
			path:        config.ExpandHome(routerPath),
			content:     routerPreset,
		},
	}}
}

// Check reports the state of every preset.
func (d *Detector) Check() []FeatureStatus {
	out := make([]FeatureStatus, 0, len(d.features))
	for _, f := range d.features {
		status := FeatureStatus{
			FeatureID:        f.id,
			InstallationPath: f.path,
			Description:      f.description,
			CanInstall:       true,
		}
		if _, err := os.Stat(f.path); err == nil {
			status.IsInstalled = true
		}
		if path, err := exec.LookPath(f.command); err == nil {
			status.CommandPath = path
		}
		out = append(out, status)
	}
	return out
}

// Install writes the preset file for id unless the file already exists. It
// reports whether a file was written.
func (d *Detector) Install(id string) (bool, error) {
	for _, f := range d.features {
		if f.id != id {
			continue
		}
		if _, err := os.Stat(f.path); err == nil {
			return false, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("stat %s: %w", f.path, err)
		}

		data, err := f.content()
		if err != nil {
			return false, err
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return false, fmt.Errorf("create %s directory: %w", f.id, err)
		}
		if err := os.WriteFile(f.path, data, 0644); err != nil {
			return false, fmt.Errorf("write %s: %w", f.path, err)
		}
		return true, nil
	}
	return false, fmt.Errorf("%w: %s", ErrUnknownFeature, id)
}

func settingsPreset() ([]byte, error) {
	return settings.Format([]byte(`{"env":{"ANTHROPIC_BASE_URL":"https://api.anthropic.com"},"permissions":{"allow":[],"deny":[]}}`)), nil
}

func routerPreset() ([]byte, error) {
	off := false
	host := "localhost"
	cfg := router.DefaultConfig()
	cfg.Log = &off
	cfg.Host = &host
	cfg.NonInteractiveMode = &off
	return cfg.Marshal()
}
