package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/asteroid-belt/ccm/internal/models"
)

// testDB creates a temporary test database with a clock that advances one
// second per call, so ordering by timestamp is deterministic.
func testDB(t *testing.T) *DB {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := New(Config{
		Path:        dbPath,
		Debug:       false,
		MaxIdleConn: 1,
		MaxOpenConn: 1,
	})
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	db.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})

	return db
}

func strPtr(s string) *string { return &s }

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "ccm.db")

	db, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err, "database file was not created")
	assert.Equal(t, dbPath, db.Path())
}

func TestNew_MigratesLegacyDatabase(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, raw.Exec(`CREATE TABLE api_keys (
		id TEXT PRIMARY KEY, name TEXT NOT NULL, ANTHROPIC_AUTH_TOKEN TEXT NOT NULL,
		description TEXT, ANTHROPIC_BASE_URL TEXT,
		created_at TEXT NOT NULL, updated_at TEXT NOT NULL
	)`).Error)
	require.NoError(t, raw.Exec(`INSERT INTO api_keys (id, name, ANTHROPIC_AUTH_TOKEN, created_at, updated_at)
		VALUES ('legacy', 'old key', 'sk-legacy', '2024-05-01T10:00:00+00:00', '2024-05-01T10:00:00+00:00')`).Error)
	sqlDB, _ := raw.DB()
	require.NoError(t, sqlDB.Close())

	db, err := New(DefaultConfig(dbPath))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	key, err := db.GetAPIKey("legacy")
	require.NoError(t, err)
	require.NotNil(t, key)
	assert.Equal(t, "sk-legacy", key.Token)
	assert.True(t, key.IsActive)
	assert.Nil(t, key.Description)
}

func TestNew_MigrationFailureIsConnectionError(t *testing.T) {
	dir := t.TempDir()
	// A directory where the database file should be cannot be opened.
	dbPath := filepath.Join(dir, "ccm.db")
	require.NoError(t, os.MkdirAll(dbPath, 0755))

	_, err := New(DefaultConfig(dbPath))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestTransaction_RollsBack(t *testing.T) {
	db := testDB(t)

	err := db.Transaction(func(tx *DB) error {
		if _, err := tx.CreateAPIKey(models.CreateAPIKeyRequest{Name: "tmp", Token: "sk"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	keys, err := db.ListAPIKeys()
	require.NoError(t, err)
	assert.Empty(t, keys)
}
