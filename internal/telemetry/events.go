package telemetry

import (
	"runtime"
	"strings"

	"github.com/asteroid-belt/ccm/pkg/version"
)

// Event names
const (
	EventAppStarted         = "app_started"
	EventAppExited          = "app_exited"
	EventCLICommandExecuted = "cli_command_executed"
	EventCLIErrorOccurred   = "cli_error_occurred"
	EventCLIHelpViewed      = "cli_help_viewed"
	EventMCPToolCalled      = "mcp_tool_called"
	EventAPIKeyActivated    = "api_key_activated"
	EventProjectsScanned    = "projects_scanned"
	EventBackupCreated      = "backup_created"
	EventFeatureInstalled   = "feature_installed"
)

// baseProperties returns common properties for all events.
func baseProperties() map[string]interface{} {
	return map[string]interface{}{
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"version":    version.Version,
		"prerelease": version.IsPrerelease(),
		"dev_build":  version.IsDevBuild(),
	}
}

// TrackAppStarted tracks application startup.
func (c *posthogClient) TrackAppStarted(mode string) {
	props := baseProperties()
	props["mode"] = mode
	c.Track(EventAppStarted, props)
}

// TrackAppExited tracks application exit.
func (c *posthogClient) TrackAppExited(mode string, sessionDurationMs int64) {
	props := baseProperties()
	props["mode"] = mode
	props["session_duration_ms"] = sessionDurationMs
	c.Track(EventAppExited, props)
}

// TrackCLICommandExecuted tracks CLI command execution.
func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	props := baseProperties()
	props["command_name"] = commandName
	props["has_flags"] = hasFlags
	props["execution_duration_ms"] = durationMs
	c.Track(EventCLICommandExecuted, props)
}

// TrackCLIError tracks a failed command by error class.
func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["error_type"] = errorType
	c.Track(EventCLIErrorOccurred, props)
}

// TrackCLIHelpViewed tracks help output. Only flag names are sent.
func (c *posthogClient) TrackCLIHelpViewed(commandName string, cliArgs []string) {
	props := baseProperties()
	props["command_name"] = commandName
	props["flags"] = flagNames(cliArgs)
	c.Track(EventCLIHelpViewed, props)
}

// TrackMCPToolCalled tracks an MCP tool invocation.
func (c *posthogClient) TrackMCPToolCalled(toolName string, durationMs int64, success bool) {
	props := baseProperties()
	props["tool_name"] = toolName
	props["duration_ms"] = durationMs
	props["success"] = success
	c.Track(EventMCPToolCalled, props)
}

// TrackAPIKeyActivated tracks a key being written to the settings file.
func (c *posthogClient) TrackAPIKeyActivated(source string) {
	props := baseProperties()
	props["source"] = source
	c.Track(EventAPIKeyActivated, props)
}

// TrackProjectsScanned tracks a project scan.
func (c *posthogClient) TrackProjectsScanned(found, added int, durationMs int64) {
	props := baseProperties()
	props["projects_found"] = found
	props["projects_added"] = added
	props["duration_ms"] = durationMs
	c.Track(EventProjectsScanned, props)
}

// TrackBackupCreated tracks a backup; kind is "settings" or "router".
func (c *posthogClient) TrackBackupCreated(kind string) {
	props := baseProperties()
	props["kind"] = kind
	c.Track(EventBackupCreated, props)
}

// TrackFeatureInstalled tracks a preset install.
func (c *posthogClient) TrackFeatureInstalled(featureID string, wrote bool) {
	props := baseProperties()
	props["feature_id"] = featureID
	props["wrote"] = wrote
	c.Track(EventFeatureInstalled, props)
}

// flagNames keeps the "--flag" part of each flag argument and drops values
// and positional arguments.
func flagNames(args []string) []string {
	var names []string
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			continue
		}
		if i := strings.Index(a, "="); i >= 0 {
			a = a[:i]
		}
		names = append(names, a)
	}
	return names
}

func (c *noopClient) TrackAppStarted(mode string) {}
func (c *noopClient) TrackAppExited(mode string, sessionDurationMs int64) {}
func (c *noopClient) TrackCLICommandExecuted(commandName string, hasFlags bool, d int64) {}
func (c *noopClient) TrackCLIError(commandName, errorType string) {}
func (c *noopClient) TrackCLIHelpViewed(commandName string, cliArgs []string) {}
func (c *noopClient) TrackMCPToolCalled(toolName string, durationMs int64, ok bool) {}
func (c *noopClient) TrackAPIKeyActivated(source string) {}
func (c *noopClient) TrackProjectsScanned(found, added int, durationMs int64) {}
func (c *noopClient) TrackBackupCreated(kind string) {}
func (c *noopClient) TrackFeatureInstalled(featureID string, wrote bool) {}
