package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/asteroid-belt/ccm/internal/cli/prompts"
	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/log"
)

// confirm is swapped out in tests.
var confirm = prompts.Confirm

// loadedConfig is set by initLogging before any command runs.
var loadedConfig *config.Config

func initLogging() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	loadedConfig = cfg
	_ = log.Close()
	if err := log.Init(config.GetPaths(cfg).LogDir, cfg.LogLevel); err != nil {
		return fmt.Errorf("init log: %w", err)
	}
	return nil
}

// session is an open database plus the configuration it was opened with.
type session struct {
	cfg *config.Config
	db  *db.DB
}

func openSession() (*session, error) {
	cfg := loadedConfig
	if cfg == nil {
		var err error
		if cfg, err = config.Load(); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	dbCfg := db.DefaultConfig(config.GetPaths(cfg).Database)
	dbCfg.Debug = cfg.Debug
	database, err := db.New(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	return &session{cfg: cfg, db: database}, nil
}

func (s *session) Close() {
	_ = s.db.Close()
}

// settingsPath returns the settings file in use, "~" expanded.
func (s *session) settingsPath() (string, error) {
	path, err := s.db.GetCurrentConfigPath(s.cfg.SettingsPath)
	if err != nil {
		return "", err
	}
	return config.ExpandHome(path), nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// printTable renders rows under headers.
func printTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, _ = fmt.Fprintln(w, t.Render())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func optionalOrNil(cmd *cobra.Command, name string) *string {
	v, _ := cmd.Flags().GetString(name)
	if v == "" {
		return nil
	}
	return &v
}

// readInput returns the content of the named file, or stdin for "-".
func readInput(cmd *cobra.Command, name string) (string, error) {
	if name == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(config.ExpandHome(name))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func printJSONString(w io.Writer, s string) {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, _ = fmt.Fprint(w, s)
}
