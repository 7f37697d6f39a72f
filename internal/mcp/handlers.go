package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asteroid-belt/ccm/internal/models"
	"github.com/asteroid-belt/ccm/internal/router"
	"github.com/asteroid-belt/ccm/internal/settings"
)

const (
	defaultProjectLimit = 50
	maxProjectLimit     = 500
)

// parseLimit extracts and validates a limit parameter from MCP tool arguments.
// Returns defaultVal if not present, caps at maxVal if exceeded.
func parseLimit(arguments map[string]interface{}, defaultVal, maxVal int) int {
	if l, ok := arguments["limit"].(float64); ok && l > 0 {
		limit := int(l)
		if limit > maxVal {
			return maxVal
		}
		return limit
	}
	return defaultVal
}

func stringArg(arguments map[string]interface{}, name string) string {
	v, _ := arguments[name].(string)
	return v
}

// trackToolCall is a helper to track MCP tool invocations.
func (s *Server) trackToolCall(toolName string, start time.Time, success bool) {
	if s.telemetry != nil {
		s.telemetry.TrackMCPToolCalled(toolName, time.Since(start).Milliseconds(), success)
	}
}

// jsonResult marshals v as the tool's text result.
func (s *Server) jsonResult(toolName string, start time.Time, v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return s.fail(toolName, start, "failed to marshal results: %v", err)
	}
	s.trackToolCall(toolName, start, true)
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) fail(toolName string, start time.Time, format string, args ...interface{}) (*mcp.CallToolResult, error) {
	s.trackToolCall(toolName, start, false)
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

// APIKeyResponse is an API key with its secret masked.
type APIKeyResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	MaskedKey   string  `json:"masked_key"`
	BaseURL     *string `json:"base_url,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
	UpdatedAt   string  `json:"updated_at"`
}

// ActivateResult reports where a key was written.
type ActivateResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	SettingsPath string `json:"settings_path"`
}

// BackupResult reports a created backup.
type BackupResult struct {
	Success bool              `json:"success"`
	Kind    string            `json:"kind"`
	Backup  models.BackupFile `json:"backup"`
}

func toAPIKeyResponse(k *models.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          k.ID,
		Name:        k.Name,
		MaskedKey:   k.MaskedToken(),
		BaseURL:     k.BaseURL,
		Description: k.Description,
		IsActive:    k.IsActive,
		UpdatedAt:   k.UpdatedAt,
	}
}

func (s *Server) handleListAPIKeys(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "ccm_list_api_keys"
	start := time.Now()

	activeOnly, _ := req.Params.Arguments["active_only"].(bool)

	keys, err := s.db.WithContext(ctx).ListAPIKeys()
	if err != nil {
		return s.fail(tool, start, "failed to list api keys: %v", err)
	}

	results := make([]APIKeyResponse, 0, len(keys))
	for i := range keys {
		if activeOnly && !keys[i].IsActive {
			continue
		}
		results = append(results, toAPIKeyResponse(&keys[i]))
	}
	return s.jsonResult(tool, start, results)
}

func (s *Server) handleActivateAPIKey(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "ccm_activate_api_key"
	start := time.Now()

	id := stringArg(req.Params.Arguments, "id")
	if id == "" {
		return s.fail(tool, start, "id parameter is required")
	}

	store := s.db.WithContext(ctx)
	key, err := store.GetAPIKey(id)
	if err != nil {
		return s.fail(tool, start, "failed to get api key: %v", err)
	}
	if key == nil {
		return s.fail(tool, start, "api key not found: %s", id)
	}

	path, err := s.backups.SettingsPath()
	if err != nil {
		return s.fail(tool, start, "failed to resolve settings path: %v", err)
	}
	if err := settings.ApplyAPIKey(path, key); err != nil {
		return s.fail(tool, start, "failed to write settings: %v", err)
	}

	if s.telemetry != nil {
		s.telemetry.TrackAPIKeyActivated("mcp")
	}
	return s.jsonResult(tool, start, ActivateResult{
		Success:      true,
		Message:      fmt.Sprintf("Activated api key '%s'", key.Name),
		SettingsPath: path,
	})
}

func (s *Server) handleGetRouterConfig(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "ccm_get_router_config"
	start := time.Now()

	cfg, err := s.router.Get(ctx)
	if err != nil {
		return s.fail(tool, start, "failed to get router config: %v", err)
	}

	masked := *cfg
	masked.Providers = make([]router.Provider, len(cfg.Providers))
	for i, p := range cfg.Providers {
		key := &models.APIKey{Token: p.APIKey}
		p.APIKey = key.MaskedToken()
		masked.Providers[i] = p
	}
	if masked.AnthropicAPIKey != nil {
		key := &models.APIKey{Token: *masked.AnthropicAPIKey}
		m := key.MaskedToken()
		masked.AnthropicAPIKey = &m
	}
	return s.jsonResult(tool, start, masked)
}

func (s *Server) handleListProjects(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "ccm_list_projects"
	start := time.Now()

	limit := parseLimit(req.Params.Arguments, defaultProjectLimit, maxProjectLimit)

	store := s.db.WithContext(ctx)
	var projects []models.Project
	var err error
	if category := stringArg(req.Params.Arguments, "category"); category != "" {
		projects, err = store.ListProjectsByCategory(category)
	} else {
		projects, err = store.ListProjects()
	}
	if err != nil {
		return s.fail(tool, start, "failed to list projects: %v", err)
	}

	if len(projects) > limit {
		projects = projects[:limit]
	}
	return s.jsonResult(tool, start, projects)
}

func (s *Server) handleListBackups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "ccm_list_backups"
	start := time.Now()

	var files []models.BackupFile
	var err error
	switch kind := stringArg(req.Params.Arguments, "kind"); kind {
	case "", backupKindSettings:
		files, err = s.backups.List()
	case backupKindRouter:
		files, err = s.router.ListBackups()
	default:
		return s.fail(tool, start, "unknown backup kind: %s", kind)
	}
	if err != nil {
		return s.fail(tool, start, "failed to list backups: %v", err)
	}
	return s.jsonResult(tool, start, files)
}

func (s *Server) handleCreateBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	const tool = "ccm_create_backup"
	start := time.Now()

	kind := stringArg(req.Params.Arguments, "kind")
	if kind == "" {
		kind = backupKindSettings
	}

	var file *models.BackupFile
	switch kind {
	case backupKindSettings:
		filename := stringArg(req.Params.Arguments, "filename")
		if filename == "" {
			path, err := s.backups.SettingsPath()
			if err != nil {
				return s.fail(tool, start, "failed to resolve settings path: %v", err)
			}
			filename = filepath.Base(path)
		}
		f, err := s.backups.Create(filename)
		if err != nil {
			return s.fail(tool, start, "failed to create backup: %v", err)
		}
		file = f
	case backupKindRouter:
		target, err := s.router.Backup()
		if err != nil {
			return s.fail(tool, start, "failed to create backup: %v", err)
		}
		file = &models.BackupFile{Filename: filepath.Base(target), Path: target}
		if files, err := s.router.ListBackups(); err == nil {
			for _, f := range files {
				if f.Path == target {
					f := f
					file = &f
					break
				}
			}
		}
	default:
		return s.fail(tool, start, "unknown backup kind: %s", kind)
	}

	if s.telemetry != nil {
		s.telemetry.TrackBackupCreated(kind)
	}
	return s.jsonResult(tool, start, BackupResult{Success: true, Kind: kind, Backup: *file})
}
