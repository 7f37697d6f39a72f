// Package cli provides the command-line interface for ccm.
package cli

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/cli/prompts"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/detect"
	"github.com/asteroid-belt/ccm/internal/log"
	"github.com/asteroid-belt/ccm/internal/router"
	"github.com/asteroid-belt/ccm/internal/settings"
	"github.com/asteroid-belt/ccm/internal/telemetry"
	"github.com/asteroid-belt/ccm/pkg/version"
)

var telemetryClient telemetry.Client = telemetry.New()

var commandStartTime time.Time

var rootCmd = &cobra.Command{
	Use:   "ccm",
	Short: "Configuration manager for AI coding tools",
	Long: `Configuration manager for AI coding tools

Keeps API keys, settings file locations, router providers and project
inventories in a local database, and writes them into the JSON files
read by the agent CLI (~/.claude/settings.json) and the router
(~/.claude-code-router/config.json).

Configuration:
  CCM_HOME                 Directory for the database, config.yaml and logs
  CCM_SETTINGS_PATH        Default settings file
  CCM_ROUTER_CONFIG_PATH   Default router config file
  CCM_LOG_LEVEL, CCM_DEBUG Logging

Telemetry:
  Telemetry is anonymous and never includes keys, paths or file contents.

  Opt-out with:
  	CCM_TELEMETRY_TRACKING_ENABLED=false`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		commandStartTime = time.Now()
		return initLogging()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		durationMs := time.Since(commandStartTime).Milliseconds()
		hasFlags := cmd.Flags().NFlag() > 0
		telemetryClient.TrackCLICommandExecuted(cmd.CommandPath(), hasFlags, durationMs)

		if cmd.Flags().Changed("help") {
			telemetryClient.TrackCLIHelpViewed(cmd.Name(), os.Args[1:])
		}
	},
}

func init() {
	rootCmd.AddCommand(apikeyCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(routerCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(routeCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(categoryCmd)
	rootCmd.AddCommand(featureCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context, tc telemetry.Client) error {
	if tc == nil {
		tc = telemetry.New()
	}
	telemetryClient = tc
	telemetryClient.TrackAppStarted("cli")
	defer func() { _ = log.Close() }()

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Short()),
		fang.WithCommit(version.Commit),
	)

	telemetryClient.TrackAppExited("cli", time.Since(commandStartTime).Milliseconds())
	return err
}

// trackCLIError wraps an error with telemetry tracking.
// Call this before returning errors from CLI commands.
func trackCLIError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	errorType := classifyError(err)
	telemetryClient.TrackCLIError(cmdName, errorType)
	log.WithField("command", cmdName).WithField("kind", errorType).Debugf("%v", err)
	return err
}

// classifyError determines the error type for telemetry.
func classifyError(err error) string {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, prompts.ErrUserCancelled):
		return "cancelled"
	case errors.Is(err, db.ErrConnection):
		return "database_error"
	case errors.Is(err, db.ErrNotFound), errors.Is(err, router.ErrBackupNotFound), errors.Is(err, fs.ErrNotExist):
		return "not_found_error"
	case errors.Is(err, db.ErrDuplicateName):
		return "duplicate_error"
	case errors.Is(err, settings.ErrInvalidFormat), errors.Is(err, detect.ErrUnknownFeature):
		return "validation_error"
	case errors.Is(err, fs.ErrPermission):
		return "permission_error"
	case errors.As(err, &pathErr):
		return "io_error"
	}

	errStr := err.Error()
	switch {
	case containsAny(errStr, "config", "configuration"):
		return "config_error"
	case containsAny(errStr, "database", "sqlite"):
		return "database_error"
	case containsAny(errStr, "not found", "does not exist"):
		return "not_found_error"
	case containsAny(errStr, "invalid", "parse", "format"):
		return "validation_error"
	default:
		return "unknown_error"
	}
}

// containsAny checks if s contains any of the substrings (case-insensitive).
func containsAny(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}
