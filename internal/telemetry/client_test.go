package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_DisabledByEnvVar(t *testing.T) {
	t.Setenv(EnvTrackingEnabled, "false")

	client := New()
	_, ok := client.(*noopClient)
	assert.True(t, ok, "Should return noopClient when disabled")
}

func TestNew_DisabledWithoutAPIKey(t *testing.T) {
	originalKey := PostHogAPIKey
	PostHogAPIKey = ""
	defer func() { PostHogAPIKey = originalKey }()

	client := New()
	_, ok := client.(*noopClient)
	assert.True(t, ok, "Should return noopClient without API key")
	assert.Empty(t, client.GetTrackingID())
}

func TestNoopClient_DoesNotPanic(t *testing.T) {
	client := &noopClient{}

	client.Track("test_event", map[string]interface{}{"key": "value"})
	client.TrackAppStarted("cli")
	client.TrackAppExited("cli", 5000)
	client.TrackCLICommandExecuted("list", true, 100)
	client.TrackCLIError("use", "not_found_error")
	client.TrackCLIHelpViewed("root", []string{"--help"})
	client.TrackMCPToolCalled("ccm_list_api_keys", 12, true)
	client.TrackAPIKeyActivated("mcp")
	client.TrackProjectsScanned(4, 2, 30)
	client.TrackBackupCreated("router")
	client.TrackFeatureInstalled("claude-code", true)
	client.Close()
}

func TestBaseProperties(t *testing.T) {
	props := baseProperties()

	assert.Contains(t, props, "os")
	assert.Contains(t, props, "arch")
	assert.Contains(t, props, "version")
}

func TestFlagNames(t *testing.T) {
	got := flagNames([]string{"apikey", "add", "--name=work", "--token", "sk-secret", "-h"})
	assert.Equal(t, []string{"--name", "--token", "-h"}, got)
}
