package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/asteroid-belt/ccm/internal/settings"
)

const (
	settingsURI     = "ccm://settings"
	routerConfigURI = "ccm://router/config"
)

func (s *Server) handleSettingsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	path, err := s.backups.SettingsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve settings path: %w", err)
	}
	content, err := settings.ReadRawOrEmpty(path)
	if err != nil {
		return nil, err
	}
	if content == "" {
		content = "{}"
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     content,
		},
	}, nil
}

func (s *Server) handleRouterConfigResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	content, err := s.router.Raw()
	if err != nil {
		return nil, fmt.Errorf("failed to read router config: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     content,
		},
	}, nil
}
