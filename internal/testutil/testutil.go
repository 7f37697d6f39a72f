// Package testutil provides testing utilities.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Env is an isolated set of ccm locations under a temporary directory.
type Env struct {
	Home         string // stands in for the user's home directory
	DataDir      string // CCM_HOME
	SettingsPath string
	RouterPath   string
}

// IsolateHome points HOME and every ccm location at a fresh temporary
// directory for the duration of the test.
func IsolateHome(t *testing.T) Env {
	t.Helper()
	home := t.TempDir()
	env := Env{
		Home:         home,
		DataDir:      filepath.Join(home, ".ccm"),
		SettingsPath: filepath.Join(home, ".claude", "settings.json"),
		RouterPath:   filepath.Join(home, ".claude-code-router", "config.json"),
	}
	t.Setenv("HOME", home)
	t.Setenv("CCM_HOME", env.DataDir)
	t.Setenv("CCM_SETTINGS_PATH", env.SettingsPath)
	t.Setenv("CCM_ROUTER_CONFIG_PATH", env.RouterPath)
	t.Setenv("CCM_DB_PATH", "")
	t.Setenv("CCM_DEBUG", "")
	t.Setenv("CCM_LOG_LEVEL", "")
	t.Setenv("CCM_TELEMETRY_TRACKING_ENABLED", "false")
	return env
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// ReadJSON decodes the JSON file at path into a generic map.
func ReadJSON(t *testing.T, path string) map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc), "file %s is not a JSON object", path)
	return doc
}
