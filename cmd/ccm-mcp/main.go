// Package main provides the ccm-mcp server.
//
// ccm-mcp exposes stored API keys, the router config, projects and settings
// backups via the Model Context Protocol.
//
// Usage:
//
//	ccm-mcp [flags]
//
// The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout), so
// nothing else may be written to stdout.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/log"
	"github.com/asteroid-belt/ccm/internal/mcp"
	"github.com/asteroid-belt/ccm/internal/telemetry"
	"github.com/asteroid-belt/ccm/pkg/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-v") {
		fmt.Printf("ccm-mcp %s\n", version.Version)
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "--help" || os.Args[1] == "-h") {
		printHelp()
		os.Exit(0)
	}

	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	paths := config.GetPaths(cfg)
	if err := log.Init(paths.LogDir, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
		return 1
	}
	defer func() { _ = log.Close() }()

	dbCfg := db.DefaultConfig(paths.Database)
	dbCfg.Debug = cfg.Debug
	database, err := db.New(dbCfg)
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return 1
	}
	defer func() {
		_ = database.Close()
	}()

	tc := telemetry.New()
	defer tc.Close()
	tc.TrackAppStarted("mcp")
	start := time.Now()

	server := mcp.NewServer(database, cfg, tc)
	err = server.Serve(ctx)
	tc.TrackAppExited("mcp", time.Since(start).Milliseconds())
	if err != nil {
		log.Errorf("Server error: %v", err)
		return 1
	}
	return 0
}

func printHelp() {
	help := `ccm-mcp - MCP server for ccm

USAGE:
    ccm-mcp [FLAGS]

FLAGS:
    -h, --help       Print this help message
    -v, --version    Print version information

DESCRIPTION:
    ccm-mcp is a Model Context Protocol (MCP) server that exposes the ccm
    database to MCP-compatible clients.

    The server communicates via JSON-RPC 2.0 over stdio (stdin/stdout).

CONFIGURATION:
    Add to ~/.claude.json for user-level access:

    {
      "mcpServers": {
        "ccm": {
          "type": "stdio",
          "command": "ccm-mcp"
        }
      }
    }

TOOLS PROVIDED:
    ccm_list_api_keys      List stored API keys (secrets masked)
    ccm_activate_api_key   Write a key into the current settings file
    ccm_get_router_config  Get the stored router config
    ccm_list_projects      List discovered projects
    ccm_list_backups       List settings or router backups
    ccm_create_backup      Back up the settings or router config file

RESOURCES PROVIDED:
    ccm://settings         The settings file in use
    ccm://router/config    The router config file
`
	fmt.Print(help)
}
