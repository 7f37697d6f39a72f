package cli

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/backup"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/models"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Snapshot the settings file into the database",
	Long: `Snapshot the settings file into the database and restore it.

Snapshots are kept per filename; show and restore use the newest one.

Subcommands:
  create [filename]    Snapshot the current settings file
  list                 List snapshots
  show <filename>      Print the newest snapshot
  restore <filename>   Overwrite the settings file with the newest snapshot
  delete <filename>    Remove every snapshot stored under filename`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var backupCreateCmd = &cobra.Command{
	Use:   "create [filename]",
	Short: "Snapshot the current settings file",
	Long: `Snapshot the current settings file.

The filename defaults to the settings file's base name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackupCreate,
}

var backupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List settings snapshots",
	Args:  cobra.NoArgs,
	RunE:  runBackupList,
}

var backupShowCmd = &cobra.Command{
	Use:   "show <filename>",
	Short: "Print the newest snapshot of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupShow,
}

var backupRestoreCmd = &cobra.Command{
	Use:   "restore <filename>",
	Short: "Overwrite the settings file with the newest snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupRestore,
}

var backupDeleteCmd = &cobra.Command{
	Use:   "delete <filename>",
	Short: "Remove every snapshot of a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBackupDelete,
}

func init() {
	backupRestoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	backupCmd.AddCommand(backupCreateCmd)
	backupCmd.AddCommand(backupListCmd)
	backupCmd.AddCommand(backupShowCmd)
	backupCmd.AddCommand(backupRestoreCmd)
	backupCmd.AddCommand(backupDeleteCmd)
}

// withBackups opens a session and hands its backup manager to fn.
func withBackups(name string, fn func(m *backup.Manager) error) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError(name, err)
	}
	defer s.Close()
	return trackCLIError(name, fn(backup.NewManager(s.db, s.cfg.SettingsPath)))
}

func runBackupCreate(cmd *cobra.Command, args []string) error {
	return withBackups("backup create", func(m *backup.Manager) error {
		filename := ""
		if len(args) == 1 {
			filename = args[0]
		} else {
			path, err := m.SettingsPath()
			if err != nil {
				return err
			}
			filename = filepath.Base(path)
		}

		f, err := m.Create(filename)
		if err != nil {
			return err
		}
		telemetryClient.TrackBackupCreated("settings")
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %s (%s).\n", f.Path, humanize.Bytes(uint64(f.Size)))
		return nil
	})
}

func runBackupList(cmd *cobra.Command, args []string) error {
	return withBackups("backup list", func(m *backup.Manager) error {
		files, err := m.List()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No backups stored.")
			return nil
		}
		printBackupFiles(cmd, files)
		return nil
	})
}

func runBackupShow(cmd *cobra.Command, args []string) error {
	return withBackups("backup show", func(m *backup.Manager) error {
		content, err := m.Content(args[0])
		if err != nil {
			return err
		}
		printJSONString(cmd.OutOrStdout(), content)
		return nil
	})
}

func runBackupRestore(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")
	return withBackups("backup restore", func(m *backup.Manager) error {
		path, err := m.SettingsPath()
		if err != nil {
			return err
		}
		if !yes {
			ok, err := confirm(fmt.Sprintf("Overwrite %s with backup %s?", path, args[0]))
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Restore cancelled.")
				return nil
			}
		}
		if err := m.Restore(args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s from %s.\n", path, args[0])
		return nil
	})
}

func runBackupDelete(cmd *cobra.Command, args []string) error {
	return withBackups("backup delete", func(m *backup.Manager) error {
		deleted, err := m.Delete(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("backup %q: %w", args[0], db.ErrNotFound)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted backups of %s.\n", args[0])
		return nil
	})
}

func printBackupFiles(cmd *cobra.Command, files []models.BackupFile) {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Filename, f.CreatedAt, humanize.Bytes(uint64(f.Size)), f.Checksum, f.Path})
	}
	printTable(cmd.OutOrStdout(), []string{"FILENAME", "CREATED", "SIZE", "CHECKSUM", "PATH"}, rows)
}
