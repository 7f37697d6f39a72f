package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/discovery"
	"github.com/asteroid-belt/ccm/internal/models"
)

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"projects"},
	Short:   "Manage discovered projects",
	Long: `Manage the project inventory.

Subcommands:
  list           List projects
  scan <dir>     Find projects under <dir> and store the new ones
  update <id>    Change fields of a project
  delete <id>    Remove a project
  clear          Remove every project`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjectList,
}

var projectScanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Find projects under a directory",
	Long: `Find projects under a directory and store those not yet known.

New projects are filed under a category named after the directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runProjectScan,
}

var projectUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectUpdate,
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectDelete,
}

var projectClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every project",
	Args:  cobra.NoArgs,
	RunE:  runProjectClear,
}

func init() {
	defaults := discovery.DefaultScanOptions()
	projectScanCmd.Flags().Int("max-depth", defaults.MaxDepth, "How many directory levels to descend")
	projectScanCmd.Flags().StringSlice("marker", defaults.MarkerFiles, "Files that mark a project directory")
	projectScanCmd.Flags().StringSlice("ignore", defaults.IgnorePatterns, "Directory name prefixes to skip")

	projectListCmd.Flags().String("category", "", "Only list projects in this category")

	projectUpdateCmd.Flags().String("name", "", "New name")
	projectUpdateCmd.Flags().String("category", "", "New category")
	projectUpdateCmd.Flags().String("type", "", "New project type")
	projectUpdateCmd.Flags().StringSlice("frameworks", nil, "Replace the framework list")
	projectUpdateCmd.Flags().String("description", "", "New description")

	projectClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectScanCmd)
	projectCmd.AddCommand(projectUpdateCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectClearCmd)
}

func runProjectList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("project list", err)
	}
	defer s.Close()

	var projects []models.Project
	if category, _ := cmd.Flags().GetString("category"); category != "" {
		projects, err = s.db.ListProjectsByCategory(category)
	} else {
		projects, err = s.db.ListProjects()
	}
	if err != nil {
		return trackCLIError("project list", err)
	}
	if len(projects) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No projects stored.")
		return nil
	}
	printProjects(cmd, projects)
	return nil
}

func runProjectScan(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("project scan", err)
	}
	defer s.Close()

	opts := discovery.DefaultScanOptions()
	opts.MaxDepth, _ = cmd.Flags().GetInt("max-depth")
	opts.MarkerFiles, _ = cmd.Flags().GetStringSlice("marker")
	opts.IgnorePatterns, _ = cmd.Flags().GetStringSlice("ignore")

	before, err := s.db.ProjectPaths()
	if err != nil {
		return trackCLIError("project scan", err)
	}

	start := time.Now()
	projects, err := discovery.NewService(s.db).ScanAndSave(cmd.Context(), config.ExpandHome(args[0]), opts)
	if err != nil {
		return trackCLIError("project scan", err)
	}

	added := 0
	for _, p := range projects {
		if !before[p.Path] {
			added++
		}
	}
	telemetryClient.TrackProjectsScanned(len(projects), added, time.Since(start).Milliseconds())

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added %d project(s); %d stored in total.\n", added, len(projects))
	return nil
}

func runProjectUpdate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("project update", err)
	}
	defer s.Close()

	req := models.UpdateProjectRequest{
		Name:        optional(cmd, "name"),
		Category:    optional(cmd, "category"),
		ProjectType: optional(cmd, "type"),
		Description: optional(cmd, "description"),
	}
	if cmd.Flags().Changed("frameworks") {
		frameworks, _ := cmd.Flags().GetStringSlice("frameworks")
		req.Frameworks = &frameworks
	}

	p, err := s.db.UpdateProject(args[0], req)
	if err != nil {
		return trackCLIError("project update", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated project '%s'.\n", p.Name)
	return nil
}

func runProjectDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("project delete", err)
	}
	defer s.Close()

	deleted, err := s.db.DeleteProject(args[0])
	if err != nil {
		return trackCLIError("project delete", err)
	}
	if !deleted {
		return trackCLIError("project delete", fmt.Errorf("project %s: %w", args[0], db.ErrNotFound))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s.\n", args[0])
	return nil
}

func runProjectClear(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	if !yes {
		ok, err := confirm("Remove every stored project?")
		if err != nil {
			return trackCLIError("project clear", err)
		}
		if !ok {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing removed.")
			return nil
		}
	}

	s, err := openSession()
	if err != nil {
		return trackCLIError("project clear", err)
	}
	defer s.Close()

	n, err := s.db.ClearProjects()
	if err != nil {
		return trackCLIError("project clear", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed %d project(s).\n", n)
	return nil
}

func printProjects(cmd *cobra.Command, projects []models.Project) {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{p.ID, p.Name, p.ProjectType, p.Category, strings.Join(p.Frameworks, ", "), p.Path})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "TYPE", "CATEGORY", "FRAMEWORKS", "PATH"}, rows)
}
