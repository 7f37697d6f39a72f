package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Backup kinds accepted by the backup tools.
const (
	backupKindSettings = "settings"
	backupKindRouter   = "router"
)

func listAPIKeysTool() mcp.Tool {
	return mcp.NewTool("ccm_list_api_keys",
		mcp.WithDescription("List stored API keys. Secrets are masked."),
		mcp.WithBoolean("active_only",
			mcp.Description("Only return keys marked active (default: false)"),
		),
	)
}

func activateAPIKeyTool() mcp.Tool {
	return mcp.NewTool("ccm_activate_api_key",
		mcp.WithDescription("Write a stored API key and its base URL into the settings file currently in use."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("The key's id as returned by ccm_list_api_keys"),
		),
	)
}

func getRouterConfigTool() mcp.Tool {
	return mcp.NewTool("ccm_get_router_config",
		mcp.WithDescription("Get the stored router config: providers (keys masked), routes and settings."),
	)
}

func listProjectsTool() mcp.Tool {
	return mcp.NewTool("ccm_list_projects",
		mcp.WithDescription("List discovered projects ordered by name."),
		mcp.WithString("category",
			mcp.Description("Only return projects in this category (optional)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results to return (default: 50, max: 500)"),
		),
	)
}

func listBackupsTool() mcp.Tool {
	return mcp.NewTool("ccm_list_backups",
		mcp.WithDescription("List backups, newest first."),
		mcp.WithString("kind",
			mcp.Description("'settings' for database snapshots of the settings file, 'router' for router config backup files. Default: settings."),
		),
	)
}

func createBackupTool() mcp.Tool {
	return mcp.NewTool("ccm_create_backup",
		mcp.WithDescription("Back up the settings file into the database, or the router config file into its backups directory."),
		mcp.WithString("kind",
			mcp.Description("'settings' or 'router'. Default: settings."),
		),
		mcp.WithString("filename",
			mcp.Description("Name to store a settings snapshot under (default: the settings file's base name)"),
		),
	)
}
