// Package backup snapshots the settings file into the database.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/models"
	"github.com/asteroid-belt/ccm/internal/settings"
)

// Manager creates and restores settings snapshots.
type Manager struct {
	db          *db.DB
	defaultPath string
}

// NewManager creates a Manager. defaultPath is the settings file used while
// no current path is recorded.
func NewManager(database *db.DB, defaultPath string) *Manager {
	if defaultPath == "" {
		defaultPath = config.DefaultSettingsPath
	}
	return &Manager{db: database, defaultPath: defaultPath}
}

// SettingsPath returns the settings file the manager reads and restores.
func (m *Manager) SettingsPath() (string, error) {
	path, err := m.db.GetCurrentConfigPath(m.defaultPath)
	if err != nil {
		return "", err
	}
	return config.ExpandHome(path), nil
}

// Create stores the current settings file content under filename.
func (m *Manager) Create(filename string) (*models.BackupFile, error) {
	path, err := m.SettingsPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	b, err := m.db.CreateBackup(filename, string(data))
	if err != nil {
		return nil, err
	}
	f := b.File()
	return &f, nil
}

// List returns every snapshot, newest first.
func (m *Manager) List() ([]models.BackupFile, error) {
	backups, err := m.db.ListBackups()
	if err != nil {
		return nil, err
	}
	files := make([]models.BackupFile, 0, len(backups))
	for i := range backups {
		files = append(files, backups[i].File())
	}
	return files, nil
}

// Content returns the newest snapshot stored under filename.
func (m *Manager) Content(filename string) (string, error) {
	b, err := m.db.LatestBackup(filename)
	if err != nil {
		return "", err
	}
	if b == nil {
		return "", fmt.Errorf("backup %q: %w", filename, db.ErrNotFound)
	}
	return b.Content, nil
}

// Restore overwrites the settings file with the newest snapshot stored under
// filename. A snapshot that is not valid JSON is rejected.
func (m *Manager) Restore(filename string) error {
	content, err := m.Content(filename)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(content)) {
		return fmt.Errorf("backup %q: %w", filename, settings.ErrInvalidFormat)
	}

	path, err := m.SettingsPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("restore settings file: %w", err)
	}
	return nil
}

// Delete removes every snapshot stored under filename. It reports whether
// any existed.
func (m *Manager) Delete(filename string) (bool, error) {
	return m.db.DeleteBackups(filename)
}
