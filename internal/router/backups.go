package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/asteroid-belt/ccm/internal/models"
	"github.com/asteroid-belt/ccm/internal/settings"
)

const (
	backupPrefix = "claude_router_config_backup_"
	backupSuffix = ".json"
	backupStamp  = "20060102_150405"
)

// ErrBackupNotFound is returned when a named backup file does not exist.
var ErrBackupNotFound = errors.New("backup file not found")

// backupDir is the backups directory next to the config file.
func (s *Service) backupDir() (string, error) {
	path, err := s.Path()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(path), "backups"), nil
}

// backupPath resolves a backup name inside the backups directory. Only the
// base name is used.
func (s *Service) backupPath(name string) (string, error) {
	dir, err := s.backupDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.Base(name)), nil
}

// Backup copies the live file into the backups directory and returns the
// new file's path.
func (s *Service) Backup() (string, error) {
	path, err := s.Path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read router config: %w", err)
	}

	dir, err := s.backupDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create backup directory: %w", err)
	}

	target := filepath.Join(dir, backupPrefix+s.now().Format(backupStamp)+backupSuffix)
	if err := os.WriteFile(target, data, 0644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return target, nil
}

// ListBackups returns the backup files, newest first.
func (s *Service) ListBackups() ([]models.BackupFile, error) {
	dir, err := s.backupDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []models.BackupFile{}, nil
		}
		return nil, fmt.Errorf("read backup directory: %w", err)
	}

	files := make([]models.BackupFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != backupSuffix {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat backup %s: %w", e.Name(), err)
		}
		files = append(files, models.BackupFile{
			Filename:  e.Name(),
			Path:      filepath.Join(dir, e.Name()),
			Size:      info.Size(),
			CreatedAt: backupTime(e.Name(), info.ModTime()),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].CreatedAt > files[j].CreatedAt
	})
	return files, nil
}

// backupTime reads the creation time out of a backup name, falling back to
// the modification time.
func backupTime(name string, modTime time.Time) string {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	if strings.HasPrefix(name, backupPrefix) && len(stamp) == len(backupStamp) {
		if t, err := time.Parse(backupStamp, stamp); err == nil {
			return t.Format("2006-01-02T15:04:05Z")
		}
	}
	return modTime.UTC().Truncate(time.Second).Format(time.RFC3339)
}

// Restore overwrites the live file with a backup after checking that the
// backup is valid JSON.
func (s *Service) Restore(name string) error {
	content, err := s.BackupContent(name)
	if err != nil {
		return err
	}
	if !json.Valid([]byte(content)) {
		return fmt.Errorf("backup %s: %w", name, settings.ErrInvalidFormat)
	}
	path, err := s.Path()
	if err != nil {
		return err
	}
	return writeFile(path, []byte(content))
}

// BackupContent returns a backup file's content.
func (s *Service) BackupContent(name string) (string, error) {
	path, err := s.backupPath(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, ErrBackupNotFound)
		}
		return "", fmt.Errorf("read backup: %w", err)
	}
	return string(data), nil
}

// DeleteBackup removes a backup file. It reports whether the file existed.
func (s *Service) DeleteBackup(name string) (bool, error) {
	path, err := s.backupPath(name)
	if err != nil {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete backup: %w", err)
	}
	return true, nil
}
