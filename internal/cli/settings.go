package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read and write the current settings file",
	Long: `Read and write the settings file in use (see "ccm path current").

Subcommands:
  show           Summarise the managed fields
  raw            Print the file verbatim
  write <file>   Replace the file with the content of <file> ("-" for stdin)
  env            Print the env block`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Summarise the managed fields of the settings file",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsRawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Print the settings file verbatim",
	Long: `Print the settings file verbatim.

A missing file is created containing "{}".`,
	Args: cobra.NoArgs,
	RunE: runSettingsRaw,
}

var settingsWriteCmd = &cobra.Command{
	Use:   "write <file>",
	Short: "Replace the settings file",
	Long: `Replace the settings file with the content of <file>, or stdin for "-".

The content must be valid JSON and is written unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsWrite,
}

var settingsEnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the env block of the settings file",
	Args:  cobra.NoArgs,
	RunE:  runSettingsEnv,
}

func init() {
	settingsEnvCmd.Flags().Bool("reveal", false, "Show secrets unmasked")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsRawCmd)
	settingsCmd.AddCommand(settingsWriteCmd)
	settingsCmd.AddCommand(settingsEnvCmd)
}

func runSettingsShow(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("settings show", err)
	}
	defer s.Close()

	path, err := s.settingsPath()
	if err != nil {
		return trackCLIError("settings show", err)
	}
	st, err := settings.ShowEnv(path)
	if err != nil {
		return trackCLIError("settings show", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "File:      %s\n", path)
	_, _ = fmt.Fprintf(out, "API key:   %s\n", maskSecret(envString(st, settings.KeyAPIKey)))
	_, _ = fmt.Fprintf(out, "Base URL:  %s\n", envString(st, settings.KeyBaseURL))
	if st.Permissions != nil {
		_, _ = fmt.Fprintf(out, "Allow:     %s\n", strings.Join(st.Permissions.Allow, ", "))
		_, _ = fmt.Fprintf(out, "Deny:      %s\n", strings.Join(st.Permissions.Deny, ", "))
	}
	return nil
}

func runSettingsRaw(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("settings raw", err)
	}
	defer s.Close()

	path, err := s.settingsPath()
	if err != nil {
		return trackCLIError("settings raw", err)
	}
	content, err := settings.ReadRaw(path)
	if err != nil {
		return trackCLIError("settings raw", err)
	}
	printJSONString(cmd.OutOrStdout(), content)
	return nil
}

func runSettingsWrite(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, args[0])
	if err != nil {
		return trackCLIError("settings write", err)
	}

	s, err := openSession()
	if err != nil {
		return trackCLIError("settings write", err)
	}
	defer s.Close()

	path, err := s.settingsPath()
	if err != nil {
		return trackCLIError("settings write", err)
	}
	if err := settings.WriteRaw(path, content); err != nil {
		return trackCLIError("settings write", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", path)
	return nil
}

func runSettingsEnv(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("settings env", err)
	}
	defer s.Close()

	path, err := s.settingsPath()
	if err != nil {
		return trackCLIError("settings env", err)
	}
	st, err := settings.ShowEnv(path)
	if err != nil {
		return trackCLIError("settings env", err)
	}
	if len(st.Env) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No env entries.")
		return nil
	}

	reveal, _ := cmd.Flags().GetBool("reveal")
	names := make([]string, 0, len(st.Env))
	for name := range st.Env {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		value := fmt.Sprint(st.Env[name])
		if !reveal && (name == settings.KeyAPIKey || name == settings.KeyAuthToken) {
			value = maskSecret(value)
		}
		rows = append(rows, []string{name, value})
	}
	printTable(cmd.OutOrStdout(), []string{"NAME", "VALUE"}, rows)
	return nil
}

func envString(st *settings.Settings, name string) string {
	if v, ok := st.Env[name].(string); ok {
		return v
	}
	return ""
}

// maskSecret hides all but the first and last four characters.
func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 8:
		return "********"
	default:
		return s[:4] + "..." + s[len(s)-4:]
	}
}
