package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/cli/prompts"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/log"
	"github.com/asteroid-belt/ccm/internal/router"
	"github.com/asteroid-belt/ccm/internal/settings"
	"github.com/asteroid-belt/ccm/internal/telemetry"
	"github.com/asteroid-belt/ccm/internal/testutil"
)

var idPattern = regexp.MustCompile(`\(([0-9a-f-]{36})\)`)

// runCLI executes the root command with args and returns its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	telemetryClient = telemetry.New()
	loadedConfig = nil
	t.Cleanup(func() { _ = log.Close() })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// resetFlags puts every flag back to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			def := strings.Trim(f.DefValue, "[]")
			if def == "" {
				_ = sv.Replace(nil)
			} else {
				_ = sv.Replace(strings.Split(def, ","))
			}
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func createdID(t *testing.T, out string) string {
	t.Helper()
	m := idPattern.FindStringSubmatch(out)
	require.Len(t, m, 2, "no id in %q", out)
	return m[1]
}

func TestRootCmd_Structure(t *testing.T) {
	assert.Equal(t, "ccm", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	var names []string
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"apikey", "path", "settings", "router", "backup", "route", "project", "category", "feature", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestSubcommandSets(t *testing.T) {
	tests := []struct {
		cmd  *cobra.Command
		subs []string
	}{
		{apikeyCmd, []string{"list", "add", "update", "delete", "toggle", "use", "copy"}},
		{pathCmd, []string{"list", "add", "update", "delete", "current", "set", "select"}},
		{settingsCmd, []string{"show", "raw", "write", "env"}},
		{routerCmd, []string{"show", "raw", "save", "import", "path", "set-path", "reset-path", "backup", "backups", "restore", "backup-show", "backup-delete"}},
		{backupCmd, []string{"create", "list", "show", "restore", "delete"}},
		{routeCmd, []string{"list", "add", "update", "delete", "show"}},
		{projectCmd, []string{"list", "scan", "update", "delete", "clear"}},
		{categoryCmd, []string{"list", "add", "delete"}},
		{featureCmd, []string{"check", "install"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			var names []string
			for _, c := range tt.cmd.Commands() {
				names = append(names, c.Name())
			}
			assert.ElementsMatch(t, tt.subs, names)
		})
	}
}

func TestArgsValidation(t *testing.T) {
	assert.Error(t, apikeyAddCmd.Args(apikeyAddCmd, []string{"only-name"}))
	assert.NoError(t, apikeyAddCmd.Args(apikeyAddCmd, []string{"name", "sk-key"}))

	assert.NoError(t, apikeyUseCmd.Args(apikeyUseCmd, []string{}))
	assert.Error(t, apikeyUseCmd.Args(apikeyUseCmd, []string{"a", "b"}))

	assert.Error(t, routeAddCmd.Args(routeAddCmd, []string{"name", "/v1", "GET"}))
	assert.Error(t, pathListCmd.Args(pathListCmd, []string{"extra"}))
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"cancelled", fmt.Errorf("pick: %w", prompts.ErrUserCancelled), "cancelled"},
		{"connection", fmt.Errorf("open: %w", db.ErrConnection), "database_error"},
		{"not found", fmt.Errorf("api key x: %w", db.ErrNotFound), "not_found_error"},
		{"backup not found", fmt.Errorf("a.json: %w", router.ErrBackupNotFound), "not_found_error"},
		{"missing file", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrNotExist}, "not_found_error"},
		{"duplicate", fmt.Errorf("category: %w", db.ErrDuplicateName), "duplicate_error"},
		{"invalid json", settings.ErrInvalidFormat, "validation_error"},
		{"permission", &fs.PathError{Op: "open", Path: "/x", Err: fs.ErrPermission}, "permission_error"},
		{"config text", errors.New("load config: bad"), "config_error"},
		{"unknown", errors.New("something odd"), "unknown_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyError(tt.err))
		})
	}
}

func TestContainsAny(t *testing.T) {
	assert.True(t, containsAny("SQLite is busy", "sqlite"))
	assert.False(t, containsAny("fine", "sqlite", "database"))
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "********", maskSecret("short"))
	assert.Equal(t, "sk-a...wxyz", maskSecret("sk-abcdefghwxyz"))
}

func TestVersionCmd(t *testing.T) {
	testutil.IsolateHome(t)

	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ccm ")
}
