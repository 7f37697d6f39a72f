// Package mcp provides the Model Context Protocol server for ccm.
//
// The server exposes the stored API keys, router config, projects and
// settings backups to MCP-compatible clients. It reuses the same services as
// the CLI, so a key activated here is written exactly as "ccm apikey use"
// writes it.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/asteroid-belt/ccm/internal/backup"
	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/router"
	"github.com/asteroid-belt/ccm/internal/telemetry"
	"github.com/asteroid-belt/ccm/pkg/version"
)

// Server wraps the MCP server with ccm-specific functionality.
type Server struct {
	db        *db.DB
	cfg       *config.Config
	router    *router.Service
	backups   *backup.Manager
	server    *server.MCPServer
	telemetry telemetry.Client
}

// NewServer creates a new MCP server instance.
func NewServer(database *db.DB, cfg *config.Config, tc telemetry.Client) *Server {
	s := &Server{
		db:        database,
		cfg:       cfg,
		router:    router.NewService(database, cfg.RouterConfigPath),
		backups:   backup.NewManager(database, cfg.SettingsPath),
		telemetry: tc,
	}

	s.server = server.NewMCPServer(
		"ccm",
		version.Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools()
	s.registerResources()

	return s
}

// Serve starts the MCP server over stdio.
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.server)
}

func (s *Server) registerTools() {
	s.server.AddTool(listAPIKeysTool(), s.handleListAPIKeys)
	s.server.AddTool(activateAPIKeyTool(), s.handleActivateAPIKey)
	s.server.AddTool(getRouterConfigTool(), s.handleGetRouterConfig)
	s.server.AddTool(listProjectsTool(), s.handleListProjects)
	s.server.AddTool(listBackupsTool(), s.handleListBackups)
	s.server.AddTool(createBackupTool(), s.handleCreateBackup)
}

func (s *Server) registerResources() {
	s.server.AddResource(
		mcp.NewResource(
			settingsURI,
			"Settings file",
			mcp.WithResourceDescription("The settings file currently in use, verbatim"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleSettingsResource,
	)

	s.server.AddResource(
		mcp.NewResource(
			routerConfigURI,
			"Router config file",
			mcp.WithResourceDescription("The router config file, verbatim"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleRouterConfigResource,
	)
}
