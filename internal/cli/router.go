package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/router"
)

var routerCmd = &cobra.Command{
	Use:   "router",
	Short: "Manage the router config file",
	Long: `Manage the router config file and its backups.

The database holds the providers and settings; every update rewrites the file.

Subcommands:
  show                 Print the stored config
  raw                  Print the file verbatim
  save <file>          Write <file> ("-" for stdin) verbatim to the config file
  import <file>        Store <file> ("-" for stdin) and rewrite the config file
  path                 Print the config file in use
  set-path <path>      Use a custom config file
  reset-path           Go back to the default config file
  backup               Copy the config file into the backups directory
  backups              List backups
  restore <name>       Overwrite the config file with a backup
  backup-show <name>   Print a backup
  backup-delete <name> Remove a backup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var routerShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored router config",
	Long: `Print the stored router config.

When no providers are stored yet the config file is imported first.`,
	Args: cobra.NoArgs,
	RunE: runRouterShow,
}

var routerRawCmd = &cobra.Command{
	Use:   "raw",
	Short: "Print the router config file verbatim",
	Args:  cobra.NoArgs,
	RunE:  runRouterRaw,
}

var routerSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write content verbatim to the router config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouterSave,
}

var routerImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a router config and rewrite the config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouterImport,
}

var routerPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the router config file in use",
	Args:  cobra.NoArgs,
	RunE:  runRouterPath,
}

var routerSetPathCmd = &cobra.Command{
	Use:   "set-path <path>",
	Short: "Use a custom router config file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouterSetPath,
}

var routerResetPathCmd = &cobra.Command{
	Use:   "reset-path",
	Short: "Go back to the default router config file",
	Args:  cobra.NoArgs,
	RunE:  runRouterResetPath,
}

var routerBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the router config file into the backups directory",
	Args:  cobra.NoArgs,
	RunE:  runRouterBackup,
}

var routerBackupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "List router config backups",
	Args:  cobra.NoArgs,
	RunE:  runRouterBackups,
}

var routerRestoreCmd = &cobra.Command{
	Use:   "restore <name>",
	Short: "Overwrite the router config file with a backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouterRestore,
}

var routerBackupShowCmd = &cobra.Command{
	Use:   "backup-show <name>",
	Short: "Print a router config backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouterBackupShow,
}

var routerBackupDeleteCmd = &cobra.Command{
	Use:   "backup-delete <name>",
	Short: "Remove a router config backup",
	Args:  cobra.ExactArgs(1),
	RunE:  runRouterBackupDelete,
}

func init() {
	routerShowCmd.Flags().Bool("json", false, "Print the config as JSON")

	routerCmd.AddCommand(routerShowCmd)
	routerCmd.AddCommand(routerRawCmd)
	routerCmd.AddCommand(routerSaveCmd)
	routerCmd.AddCommand(routerImportCmd)
	routerCmd.AddCommand(routerPathCmd)
	routerCmd.AddCommand(routerSetPathCmd)
	routerCmd.AddCommand(routerResetPathCmd)
	routerCmd.AddCommand(routerBackupCmd)
	routerCmd.AddCommand(routerBackupsCmd)
	routerCmd.AddCommand(routerRestoreCmd)
	routerCmd.AddCommand(routerBackupShowCmd)
	routerCmd.AddCommand(routerBackupDeleteCmd)
}

// withRouter opens a session and hands its router service to fn.
func withRouter(name string, fn func(s *session, svc *router.Service) error) error {
	s, err := openSession()
	if err != nil {
		return trackCLIError(name, err)
	}
	defer s.Close()
	return trackCLIError(name, fn(s, router.NewService(s.db, s.cfg.RouterConfigPath)))
}

func runRouterShow(cmd *cobra.Command, args []string) error {
	return withRouter("router show", func(s *session, svc *router.Service) error {
		cfg, err := svc.Get(cmd.Context())
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			data, err := cfg.Marshal()
			if err != nil {
				return err
			}
			_, _ = cmd.OutOrStdout().Write(data)
			return nil
		}

		out := cmd.OutOrStdout()
		if len(cfg.Providers) == 0 {
			_, _ = fmt.Fprintln(out, "No providers configured.")
		} else {
			rows := make([][]string, 0, len(cfg.Providers))
			for _, p := range cfg.Providers {
				rows = append(rows, []string{p.Name, p.APIBaseURL, maskSecret(p.APIKey), strings.Join(p.Models, ", ")})
			}
			printTable(out, []string{"PROVIDER", "BASE URL", "KEY", "MODELS"}, rows)
		}

		r := cfg.Router
		printTable(out, []string{"ROUTE", "TARGET"}, [][]string{
			{"default", deref(r.Default)},
			{"background", deref(r.Background)},
			{"think", deref(r.Think)},
			{"long_context", deref(r.LongContext)},
			{"long_context_threshold", uintString(r.LongContextThreshold)},
			{"web_search", deref(r.WebSearch)},
		})
		return nil
	})
}

func runRouterRaw(cmd *cobra.Command, args []string) error {
	return withRouter("router raw", func(s *session, svc *router.Service) error {
		content, err := svc.Raw()
		if err != nil {
			return err
		}
		printJSONString(cmd.OutOrStdout(), content)
		return nil
	})
}

func runRouterSave(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, args[0])
	if err != nil {
		return trackCLIError("router save", err)
	}
	return withRouter("router save", func(s *session, svc *router.Service) error {
		if err := svc.SaveRaw(content); err != nil {
			return err
		}
		path, err := svc.Path()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s.\n", path)
		return nil
	})
}

func runRouterImport(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, args[0])
	if err != nil {
		return trackCLIError("router import", err)
	}
	cfg, err := router.Parse([]byte(content))
	if err != nil {
		return trackCLIError("router import", err)
	}
	return withRouter("router import", func(s *session, svc *router.Service) error {
		if err := svc.Update(cmd.Context(), cfg); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Stored %d provider(s).\n", len(cfg.Providers))
		return nil
	})
}

func runRouterPath(cmd *cobra.Command, args []string) error {
	return withRouter("router path", func(s *session, svc *router.Service) error {
		path, err := svc.Path()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	})
}

func runRouterSetPath(cmd *cobra.Command, args []string) error {
	return withRouter("router set-path", func(s *session, svc *router.Service) error {
		if err := svc.SetPath(args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Using router config %s.\n", args[0])
		return nil
	})
}

func runRouterResetPath(cmd *cobra.Command, args []string) error {
	return withRouter("router reset-path", func(s *session, svc *router.Service) error {
		if err := svc.ResetPath(); err != nil {
			return err
		}
		path, err := svc.Path()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Using router config %s.\n", path)
		return nil
	})
}

func runRouterBackup(cmd *cobra.Command, args []string) error {
	return withRouter("router backup", func(s *session, svc *router.Service) error {
		target, err := svc.Backup()
		if err != nil {
			return err
		}
		telemetryClient.TrackBackupCreated("router")
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Backed up to %s.\n", target)
		return nil
	})
}

func runRouterBackups(cmd *cobra.Command, args []string) error {
	return withRouter("router backups", func(s *session, svc *router.Service) error {
		files, err := svc.ListBackups()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No router backups.")
			return nil
		}
		printBackupFiles(cmd, files)
		return nil
	})
}

func runRouterRestore(cmd *cobra.Command, args []string) error {
	return withRouter("router restore", func(s *session, svc *router.Service) error {
		if err := svc.Restore(args[0]); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Restored %s.\n", args[0])
		return nil
	})
}

func runRouterBackupShow(cmd *cobra.Command, args []string) error {
	return withRouter("router backup-show", func(s *session, svc *router.Service) error {
		content, err := svc.BackupContent(args[0])
		if err != nil {
			return err
		}
		printJSONString(cmd.OutOrStdout(), content)
		return nil
	})
}

func runRouterBackupDelete(cmd *cobra.Command, args []string) error {
	return withRouter("router backup-delete", func(s *session, svc *router.Service) error {
		deleted, err := svc.DeleteBackup(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%s: %w", args[0], router.ErrBackupNotFound)
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
		return nil
	})
}

func uintString(v *uint32) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}
