package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"categories"},
	Short:   "Manage project categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  runCategoryList,
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoryAdd,
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a category",
	Long: `Remove a category.

Projects filed under it keep the category name.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoryDelete,
}

func init() {
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}

func runCategoryList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("category list", err)
	}
	defer s.Close()

	categories, err := s.db.ListCategories()
	if err != nil {
		return trackCLIError("category list", err)
	}
	if len(categories) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No categories.")
		return nil
	}
	for _, c := range categories {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), c.Name)
	}
	return nil
}

func runCategoryAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("category add", err)
	}
	defer s.Close()

	c, err := s.db.CreateCategory(args[0])
	if err != nil {
		return trackCLIError("category add", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added category '%s'.\n", c.Name)
	return nil
}

func runCategoryDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("category delete", err)
	}
	defer s.Close()

	if err := s.db.DeleteCategory(args[0]); err != nil {
		return trackCLIError("category delete", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted category '%s'.\n", args[0])
	return nil
}
