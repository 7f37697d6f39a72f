package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/detect"
	"github.com/asteroid-belt/ccm/internal/router"
)

var featureCmd = &cobra.Command{
	Use:   "feature",
	Short: "Check for and install tool configuration presets",
	Long: `Check for and install tool configuration presets.

Subcommands:
  check          Report which config files exist
  install <id>   Write the preset file for claude-code or claude-router`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var featureCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Report which config files exist",
	Args:  cobra.NoArgs,
	RunE:  runFeatureCheck,
}

var featureInstallCmd = &cobra.Command{
	Use:       "install <id>",
	Short:     "Write a preset config file",
	Long:      `Write a preset config file. An existing file is left untouched.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{detect.FeatureClaudeCode, detect.FeatureClaudeRouter},
	RunE:      runFeatureInstall,
}

func init() {
	featureCmd.AddCommand(featureCheckCmd)
	featureCmd.AddCommand(featureInstallCmd)
}

// newDetector builds a detector for the settings and router files in use.
func newDetector(s *session) (*detect.Detector, error) {
	settingsPath, err := s.settingsPath()
	if err != nil {
		return nil, err
	}
	routerPath, err := router.NewService(s.db, s.cfg.RouterConfigPath).Path()
	if err != nil {
		return nil, err
	}
	return detect.New(settingsPath, routerPath), nil
}

func runFeatureCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("feature check", err)
	}
	defer s.Close()

	d, err := newDetector(s)
	if err != nil {
		return trackCLIError("feature check", err)
	}

	statuses := d.Check()
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		installed := "no"
		if st.IsInstalled {
			installed = "yes"
		}
		rows = append(rows, []string{st.FeatureID, installed, st.InstallationPath, st.CommandPath, st.Description})
	}
	printTable(cmd.OutOrStdout(), []string{"FEATURE", "INSTALLED", "PATH", "COMMAND", "DESCRIPTION"}, rows)
	return nil
}

func runFeatureInstall(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("feature install", err)
	}
	defer s.Close()

	d, err := newDetector(s)
	if err != nil {
		return trackCLIError("feature install", err)
	}

	wrote, err := d.Install(args[0])
	if err != nil {
		return trackCLIError("feature install", err)
	}
	telemetryClient.TrackFeatureInstalled(args[0], wrote)
	if !wrote {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is already installed.\n", args[0])
		return nil
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Installed %s.\n", args[0])
	return nil
}
