package mcp

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/telemetry"
)

// mockTelemetryClient is a mock telemetry client for testing.
type mockTelemetryClient struct {
	mu     sync.Mutex
	events []mockEvent
}

type mockEvent struct {
	name       string
	properties map[string]interface{}
}

func (m *mockTelemetryClient) Track(event string, properties map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, mockEvent{name: event, properties: properties})
}

func (m *mockTelemetryClient) Close()                {}
func (m *mockTelemetryClient) GetTrackingID() string { return "test-tracking-id" }

func (m *mockTelemetryClient) TrackAppStarted(mode string) {}

func (m *mockTelemetryClient) TrackAppExited(mode string, sessionDurationMs int64) {}

func (m *mockTelemetryClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
}

func (m *mockTelemetryClient) TrackCLIError(commandName, errorType string) {}

func (m *mockTelemetryClient) TrackCLIHelpViewed(commandName string, cliArgs []string) {}

func (m *mockTelemetryClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	m.Track(telemetry.EventMCPToolCalled, map[string]interface{}{"tool_name": toolName, "success": success})
}

func (m *mockTelemetryClient) TrackAPIKeyActivated(source string) {
	m.Track(telemetry.EventAPIKeyActivated, map[string]interface{}{"source": source})
}

func (m *mockTelemetryClient) TrackProjectsScanned(found, added int, durationMs int64) {}

func (m *mockTelemetryClient) TrackBackupCreated(kind string) {
	m.Track(telemetry.EventBackupCreated, map[string]interface{}{"kind": kind})
}

func (m *mockTelemetryClient) TrackFeatureInstalled(featureID string, wrote bool) {}

func (m *mockTelemetryClient) names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.name)
	}
	return out
}

var _ telemetry.Client = (*mockTelemetryClient)(nil)

func setupTestDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(db.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

// setupTestServer returns a server whose settings and router files live in
// a temporary directory.
func setupTestServer(t *testing.T) (*Server, *mockTelemetryClient, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		SettingsPath:     filepath.Join(dir, "claude", "settings.json"),
		RouterConfigPath: filepath.Join(dir, "router", "config.json"),
	}
	tc := &mockTelemetryClient{}
	return NewServer(setupTestDB(t), cfg, tc), tc, cfg
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestNewServer(t *testing.T) {
	s, _, _ := setupTestServer(t)

	assert.NotNil(t, s.server)
	assert.NotNil(t, s.router)
	assert.NotNil(t, s.backups)
}

func TestNewServer_NilTelemetry(t *testing.T) {
	s := NewServer(setupTestDB(t), &config.Config{}, nil)
	assert.NotNil(t, s)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, parseLimit(map[string]interface{}{}, 50, 500))
	assert.Equal(t, 10, parseLimit(map[string]interface{}{"limit": float64(10)}, 50, 500))
	assert.Equal(t, 500, parseLimit(map[string]interface{}{"limit": float64(9999)}, 50, 500))
	assert.Equal(t, 50, parseLimit(map[string]interface{}{"limit": float64(-1)}, 50, 500))
	assert.Equal(t, 50, parseLimit(map[string]interface{}{"limit": "10"}, 50, 500))
}
