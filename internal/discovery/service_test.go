package discovery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/db"
)

func testDB(t *testing.T) *db.DB {
	t.Helper()
	database, err := db.New(db.DefaultConfig(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func TestService_ScanAndSave(t *testing.T) {
	database := testDB(t)
	root := filepath.Join(t.TempDir(), "workspace")
	touch(t, filepath.Join(root, "api", "go.mod"), "")
	touch(t, filepath.Join(root, "web", "package.json"), `{"dependencies":{"vue":"^3"}}`)

	svc := NewService(database)
	projects, err := svc.ScanAndSave(context.Background(), root, DefaultScanOptions())
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "api", projects[0].Name)
	assert.Equal(t, "workspace", projects[0].Category)
	assert.Equal(t, []string{"node", "vue"}, projects[1].Frameworks)

	cat, err := database.GetCategoryByName("workspace")
	require.NoError(t, err)
	assert.NotNil(t, cat)
}

func TestService_ScanAndSave_SkipsKnownPaths(t *testing.T) {
	database := testDB(t)
	root := filepath.Join(t.TempDir(), "code")
	touch(t, filepath.Join(root, "one", "go.mod"), "")

	svc := NewService(database)
	_, err := svc.ScanAndSave(context.Background(), root, DefaultScanOptions())
	require.NoError(t, err)

	touch(t, filepath.Join(root, "two", "Cargo.toml"), "")
	projects, err := svc.ScanAndSave(context.Background(), root, DefaultScanOptions())
	require.NoError(t, err)
	assert.Len(t, projects, 2)

	cats, err := database.ListCategories()
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}
