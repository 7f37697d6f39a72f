package cli

import (
	"fmt"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/cli/prompts"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/models"
	"github.com/asteroid-belt/ccm/internal/settings"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

var apikeyCmd = &cobra.Command{
	Use:     "apikey",
	Aliases: []string{"key", "keys"},
	Short:   "Manage stored API keys",
	Long: `Manage stored API keys.

Subcommands:
  list               List keys (secrets masked)
  add <name> <key>   Store a new key
  update <id>        Change fields of a key
  delete <id>        Remove a key
  toggle <id>        Flip the active flag
  use [id]           Write a key into the current settings file
  copy <id>          Copy the secret to the clipboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var apikeyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored API keys",
	Args:  cobra.NoArgs,
	RunE:  runAPIKeyList,
}

var apikeyAddCmd = &cobra.Command{
	Use:   "add <name> <key>",
	Short: "Store a new API key",
	Args:  cobra.ExactArgs(2),
	RunE:  runAPIKeyAdd,
}

var apikeyUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of an API key",
	Long: `Change fields of an API key.

Only the flags given are changed.`,
	Args: cobra.ExactArgs(1),
	RunE: runAPIKeyUpdate,
}

var apikeyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyDelete,
}

var apikeyToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the active flag of an API key",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyToggle,
}

var apikeyUseCmd = &cobra.Command{
	Use:   "use [id]",
	Short: "Write an API key into the current settings file",
	Long: `Write an API key into the current settings file.

Without an id an interactive picker lists the active keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAPIKeyUse,
}

var apikeyCopyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Copy the secret of an API key to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runAPIKeyCopy,
}

func init() {
	for _, c := range []*cobra.Command{apikeyAddCmd, apikeyUpdateCmd} {
		c.Flags().String("description", "", "Free-form description")
		c.Flags().String("base-url", "", "Endpoint written as ANTHROPIC_BASE_URL")
	}
	apikeyUpdateCmd.Flags().String("name", "", "New name")
	apikeyUpdateCmd.Flags().String("key", "", "New secret")

	apikeyCmd.AddCommand(apikeyListCmd)
	apikeyCmd.AddCommand(apikeyAddCmd)
	apikeyCmd.AddCommand(apikeyUpdateCmd)
	apikeyCmd.AddCommand(apikeyDeleteCmd)
	apikeyCmd.AddCommand(apikeyToggleCmd)
	apikeyCmd.AddCommand(apikeyUseCmd)
	apikeyCmd.AddCommand(apikeyCopyCmd)
}

func runAPIKeyList(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey list", err)
	}
	defer s.Close()

	keys, err := s.db.ListAPIKeys()
	if err != nil {
		return trackCLIError("apikey list", err)
	}
	if len(keys) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No API keys stored.")
		return nil
	}

	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		active := "no"
		if k.IsActive {
			active = "yes"
		}
		rows = append(rows, []string{k.ID, k.Name, k.MaskedToken(), deref(k.BaseURL), active})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "KEY", "BASE URL", "ACTIVE"}, rows)
	return nil
}

func runAPIKeyAdd(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey add", err)
	}
	defer s.Close()

	key, err := s.db.CreateAPIKey(models.CreateAPIKeyRequest{
		Name:        args[0],
		Token:       args[1],
		Description: optionalOrNil(cmd, "description"),
		BaseURL:     optionalOrNil(cmd, "base-url"),
	})
	if err != nil {
		return trackCLIError("apikey add", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added API key '%s' (%s).\n", key.Name, key.ID)
	return nil
}

func runAPIKeyUpdate(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey update", err)
	}
	defer s.Close()

	key, err := s.db.UpdateAPIKey(args[0], models.UpdateAPIKeyRequest{
		Name:        optional(cmd, "name"),
		Token:       optional(cmd, "key"),
		Description: optional(cmd, "description"),
		BaseURL:     optional(cmd, "base-url"),
	})
	if err != nil {
		return trackCLIError("apikey update", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated API key '%s'.\n", key.Name)
	return nil
}

func runAPIKeyDelete(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey delete", err)
	}
	defer s.Close()

	deleted, err := s.db.DeleteAPIKey(args[0])
	if err != nil {
		return trackCLIError("apikey delete", err)
	}
	if !deleted {
		return trackCLIError("apikey delete", fmt.Errorf("api key %s: %w", args[0], db.ErrNotFound))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted API key %s.\n", args[0])
	return nil
}

func runAPIKeyToggle(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey toggle", err)
	}
	defer s.Close()

	key, err := s.db.ToggleAPIKeyActive(args[0])
	if err != nil {
		return trackCLIError("apikey toggle", err)
	}
	state := "inactive"
	if key.IsActive {
		state = "active"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "API key '%s' is now %s.\n", key.Name, state)
	return nil
}

func runAPIKeyUse(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey use", err)
	}
	defer s.Close()

	source := "cli"
	var id string
	if len(args) == 1 {
		id = args[0]
	} else {
		keys, err := s.db.ListAPIKeys()
		if err != nil {
			return trackCLIError("apikey use", err)
		}
		active := keys[:0]
		for _, k := range keys {
			if k.IsActive {
				active = append(active, k)
			}
		}
		if id, err = prompts.RunAPIKeySelector(active); err != nil {
			return trackCLIError("apikey use", err)
		}
		source = "picker"
	}

	key, err := s.db.GetAPIKey(id)
	if err != nil {
		return trackCLIError("apikey use", err)
	}
	if key == nil {
		return trackCLIError("apikey use", fmt.Errorf("api key %s: %w", id, db.ErrNotFound))
	}

	path, err := s.settingsPath()
	if err != nil {
		return trackCLIError("apikey use", err)
	}
	if err := settings.ApplyAPIKey(path, key); err != nil {
		return trackCLIError("apikey use", err)
	}

	telemetryClient.TrackAPIKeyActivated(source)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote API key '%s' to %s.\n", key.Name, path)
	return nil
}

func runAPIKeyCopy(cmd *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError("apikey copy", err)
	}
	defer s.Close()

	key, err := s.db.GetAPIKey(args[0])
	if err != nil {
		return trackCLIError("apikey copy", err)
	}
	if key == nil {
		return trackCLIError("apikey copy", fmt.Errorf("api key %s: %w", args[0], db.ErrNotFound))
	}
	if err := clipboardWrite(key.Token); err != nil {
		return trackCLIError("apikey copy", fmt.Errorf("copy to clipboard: %w", err))
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Copied API key '%s' to the clipboard.\n", key.Name)
	return nil
}
