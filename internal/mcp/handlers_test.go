package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/models"
	"github.com/asteroid-belt/ccm/internal/router"
	"github.com/asteroid-belt/ccm/internal/telemetry"
)

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func strPtr(s string) *string { return &s }

func TestHandleListAPIKeys(t *testing.T) {
	s, tc, _ := setupTestServer(t)
	ctx := context.Background()

	active, err := s.db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "work", Token: "sk-ant-0123456789abcdef"})
	require.NoError(t, err)
	inactive, err := s.db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "old", Token: "sk-ant-fedcba9876543210"})
	require.NoError(t, err)
	_, err = s.db.ToggleAPIKeyActive(inactive.ID)
	require.NoError(t, err)

	t.Run("secrets are masked", func(t *testing.T) {
		result, err := s.handleListAPIKeys(ctx, callRequest(map[string]any{}))
		require.NoError(t, err)
		require.False(t, result.IsError)

		text := resultText(t, result)
		assert.NotContains(t, text, "sk-ant-0123456789abcdef")

		var keys []APIKeyResponse
		require.NoError(t, json.Unmarshal([]byte(text), &keys))
		require.Len(t, keys, 2)
		assert.Equal(t, "sk-a...cdef", keys[0].MaskedKey)
	})

	t.Run("active only", func(t *testing.T) {
		result, err := s.handleListAPIKeys(ctx, callRequest(map[string]any{"active_only": true}))
		require.NoError(t, err)

		var keys []APIKeyResponse
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &keys))
		require.Len(t, keys, 1)
		assert.Equal(t, active.ID, keys[0].ID)
	})

	assert.Contains(t, tc.names(), telemetry.EventMCPToolCalled)
}

func TestHandleActivateAPIKey(t *testing.T) {
	s, tc, cfg := setupTestServer(t)
	ctx := context.Background()

	key, err := s.db.CreateAPIKey(models.CreateAPIKeyRequest{
		Name:    "work",
		Token:   "sk-ant-0123456789abcdef",
		BaseURL: strPtr("https://api.example.com"),
	})
	require.NoError(t, err)

	t.Run("missing id", func(t *testing.T) {
		result, err := s.handleActivateAPIKey(ctx, callRequest(map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	t.Run("unknown id", func(t *testing.T) {
		result, err := s.handleActivateAPIKey(ctx, callRequest(map[string]any{"id": "missing"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, resultText(t, result), "not found")
	})

	t.Run("writes the settings file", func(t *testing.T) {
		result, err := s.handleActivateAPIKey(ctx, callRequest(map[string]any{"id": key.ID}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))

		data, err := os.ReadFile(cfg.SettingsPath)
		require.NoError(t, err)
		var doc map[string]map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &doc))
		assert.Equal(t, "sk-ant-0123456789abcdef", doc["env"]["ANTHROPIC_API_KEY"])
		assert.Equal(t, "https://api.example.com", doc["env"]["ANTHROPIC_BASE_URL"])
	})

	assert.Contains(t, tc.names(), telemetry.EventAPIKeyActivated)
}

func TestHandleGetRouterConfig(t *testing.T) {
	s, _, cfg := setupTestServer(t)
	ctx := context.Background()

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.RouterConfigPath), 0755))
	require.NoError(t, os.WriteFile(cfg.RouterConfigPath, []byte(`{
  "providers": [{"name": "deepseek", "api_base_url": "https://api.deepseek.com", "api_key": "sk-ds-0123456789", "models": ["deepseek-chat"]}],
  "router": {"default": "deepseek,deepseek-chat"}
}`), 0644))

	result, err := s.handleGetRouterConfig(ctx, callRequest(map[string]any{}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(t, result))

	text := resultText(t, result)
	assert.NotContains(t, text, "sk-ds-0123456789")

	var got router.Config
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	require.Len(t, got.Providers, 1)
	assert.Equal(t, "deepseek", got.Providers[0].Name)
	assert.Equal(t, "sk-d...6789", got.Providers[0].APIKey)
	require.NotNil(t, got.Router.Default)
	assert.Equal(t, "deepseek,deepseek-chat", *got.Router.Default)

	stored, err := s.router.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-ds-0123456789", stored.Providers[0].APIKey, "masking must not reach the store")
}

func TestHandleListProjects(t *testing.T) {
	s, _, _ := setupTestServer(t)
	ctx := context.Background()

	_, err := s.db.BulkCreateProjects([]models.CreateProjectRequest{
		{Name: "api", Path: "/code/api", Category: "code", ProjectType: "go", Frameworks: []string{"go"}},
		{Name: "web", Path: "/code/web", Category: "code", ProjectType: "node", Frameworks: []string{"react", "node"}},
		{Name: "notes", Path: "/misc/notes", Category: "misc", ProjectType: "general", Frameworks: []string{}},
	})
	require.NoError(t, err)

	tests := []struct {
		name string
		args map[string]any
		want []string
	}{
		{"all", map[string]any{}, []string{"api", "notes", "web"}},
		{"category", map[string]any{"category": "code"}, []string{"api", "web"}},
		{"limit", map[string]any{"limit": float64(1)}, []string{"api"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleListProjects(ctx, callRequest(tt.args))
			require.NoError(t, err)
			require.False(t, result.IsError)

			var projects []models.Project
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &projects))
			names := make([]string, 0, len(projects))
			for _, p := range projects {
				names = append(names, p.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestHandleBackups(t *testing.T) {
	s, tc, cfg := setupTestServer(t)
	ctx := context.Background()

	t.Run("settings backup of a missing file fails", func(t *testing.T) {
		result, err := s.handleCreateBackup(ctx, callRequest(map[string]any{}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.SettingsPath), 0755))
	require.NoError(t, os.WriteFile(cfg.SettingsPath, []byte(`{"env":{}}`), 0644))

	t.Run("settings backup", func(t *testing.T) {
		result, err := s.handleCreateBackup(ctx, callRequest(map[string]any{"kind": "settings"}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))

		var res BackupResult
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &res))
		assert.Equal(t, "settings.json", res.Backup.Filename)
		assert.Equal(t, models.VirtualPathPrefix+"settings.json", res.Backup.Path)

		result, err = s.handleListBackups(ctx, callRequest(map[string]any{}))
		require.NoError(t, err)
		var files []models.BackupFile
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &files))
		assert.Len(t, files, 1)
	})

	t.Run("router backup", func(t *testing.T) {
		_, err := s.router.Raw()
		require.NoError(t, err)

		result, err := s.handleCreateBackup(ctx, callRequest(map[string]any{"kind": "router"}))
		require.NoError(t, err)
		require.False(t, result.IsError, resultText(t, result))

		result, err = s.handleListBackups(ctx, callRequest(map[string]any{"kind": "router"}))
		require.NoError(t, err)
		var files []models.BackupFile
		require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &files))
		require.Len(t, files, 1)
		assert.Contains(t, files[0].Filename, "claude_router_config_backup_")
		assert.Positive(t, files[0].Size)
	})

	t.Run("unknown kind", func(t *testing.T) {
		result, err := s.handleListBackups(ctx, callRequest(map[string]any{"kind": "tape"}))
		require.NoError(t, err)
		assert.True(t, result.IsError)
	})

	assert.Contains(t, tc.names(), telemetry.EventBackupCreated)
}
