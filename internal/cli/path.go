package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/cli/prompts"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/models"
)

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Manage settings file locations",
	Long: `Manage bookmarked settings file locations and the one in use.

Subcommands:
  list                List bookmarks
  add <name> <path>   Bookmark a settings file
  update <id>         Change fields of a bookmark
  delete <id>         Remove a bookmark
  current             Print the settings file in use
  set <path>          Switch to a settings file
  select              Pick the settings file from the bookmarks`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var pathListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarked settings files",
	Args:  cobra.NoArgs,
	RunE:  runPathList,
}

var pathAddCmd = &cobra.Command{
	Use:   "add <name> <path>",
	Short: "Bookmark a settings file",
	Args:  cobra.ExactArgs(2),
	RunE:  runPathAdd,
}

var pathUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathUpdate,
}

var pathDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a bookmark",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathDelete,
}

var pathCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Print the settings file in use",
	Args:  cobra.NoArgs,
	RunE:  runPathCurrent,
}

var pathSetCmd = &cobra.Command{
	Use:   "set <path>",
	Short: "Switch to a settings file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPathSet,
}

var pathSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Pick the settings file from the bookmarks",
	Args:  cobra.NoArgs,
	RunE:  runPathSelect,
}

func init() {
	pathAddCmd.Flags().String("description", "", "Free-form description")
	pathUpdateCmd.Flags().String("name", "", "New name")
	pathUpdateCmd.Flags().String("path", "", "New location")
	pathUpdateCmd.Flags().String("description", "", "New description")

	pathCmd.AddCommand(pathListCmd)
	pathCmd.AddCommand(pathAddCmd)
	pathCmd.AddCommand(pathUpdateCmd)
	pathCmd.AddCommand(pathDeleteCmd)
	pathCmd.AddCommand(pathCurrentCmd)
	pathCmd.AddCommand(pathSetCmd)
	pathCmd.AddCommand(pathSelectCmd)
}

func runPathList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path list", err)
	}
	defer s.Close()

	paths, err := s.db.ListConfigPaths()
	if err != nil {
		return trackCLIError("path list", err)
	}
	current, err := s.db.GetCurrentConfigPath(s.cfg.SettingsPath)
	if err != nil {
		return trackCLIError("path list", err)
	}
	if len(paths) == 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "No bookmarks. Current settings file: %s\n", current)
		return nil
	}

	rows := make([][]string, 0, len(paths))
	for _, p := range paths {
		mark := ""
		if p.Path == current {
			mark = "*"
		}
		rows = append(rows, []string{mark, p.ID, p.Name, p.Path, deref(p.Description)})
	}
	printTable(cmd.OutOrStdout(), []string{"", "ID", "NAME", "PATH", "DESCRIPTION"}, rows)
	return nil
}

func runPathAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path add", err)
	}
	defer s.Close()

	p, err := s.db.CreateConfigPath(models.CreateConfigPathRequest{
		Name:        args[0],
		Path:        args[1],
		Description: optionalOrNil(cmd, "description"),
	})
	if err != nil {
		return trackCLIError("path add", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Bookmarked '%s' (%s).\n", p.Name, p.ID)
	return nil
}

func runPathUpdate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path update", err)
	}
	defer s.Close()

	p, err := s.db.UpdateConfigPath(args[0], models.UpdateConfigPathRequest{
		Name:        optional(cmd, "name"),
		Path:        optional(cmd, "path"),
		Description: optional(cmd, "description"),
	})
	if err != nil {
		return trackCLIError("path update", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated bookmark '%s'.\n", p.Name)
	return nil
}

func runPathDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path delete", err)
	}
	defer s.Close()

	deleted, err := s.db.DeleteConfigPath(args[0])
	if err != nil {
		return trackCLIError("path delete", err)
	}
	if !deleted {
		return trackCLIError("path delete", fmt.Errorf("config path %s: %w", args[0], db.ErrNotFound))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted bookmark %s.\n", args[0])
	return nil
}

func runPathCurrent(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path current", err)
	}
	defer s.Close()

	current, err := s.db.GetCurrentConfigPath(s.cfg.SettingsPath)
	if err != nil {
		return trackCLIError("path current", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), current)
	return nil
}

func runPathSet(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path set", err)
	}
	defer s.Close()

	if err := s.db.SetCurrentConfigPath(args[0]); err != nil {
		return trackCLIError("path set", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Using settings file %s.\n", args[0])
	return nil
}

func runPathSelect(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("path select", err)
	}
	defer s.Close()

	paths, err := s.db.ListConfigPaths()
	if err != nil {
		return trackCLIError("path select", err)
	}
	current, err := s.db.GetCurrentConfigPath(s.cfg.SettingsPath)
	if err != nil {
		return trackCLIError("path select", err)
	}

	selected, err := prompts.RunPathSelector(paths, current)
	if err != nil {
		return trackCLIError("path select", err)
	}
	if err := s.db.SetCurrentConfigPath(selected); err != nil {
		return trackCLIError("path select", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Using settings file %s.\n", selected)
	return nil
}
