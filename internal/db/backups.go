package db

import (
	"fmt"

	"github.com/asteroid-belt/ccm/internal/models"
)

// CreateBackup appends a snapshot of content under filename.
func (db *DB) CreateBackup(filename, content string) (*models.Backup, error) {
	b := &models.Backup{
		Filename:  filename,
		Content:   content,
		Size:      int64(len(content)),
		CreatedAt: db.timestamp(),
	}
	if err := db.Create(b).Error; err != nil {
		return nil, fmt.Errorf("create backup: %w", err)
	}
	return b, nil
}

// ListBackups returns every snapshot, newest first.
func (db *DB) ListBackups() ([]models.Backup, error) {
	var backups []models.Backup
	if err := db.Order("created_at DESC, id DESC").Find(&backups).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return backups, nil
}

// LatestBackup returns the newest snapshot for filename, or nil.
func (db *DB) LatestBackup(filename string) (*models.Backup, error) {
	var b models.Backup
	err := db.Where("filename = ?", filename).Order("created_at DESC, id DESC").First(&b).Error
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get backup: %w", err)
	}
	return &b, nil
}

// DeleteBackups removes every snapshot for filename. It reports whether any
// row was deleted.
func (db *DB) DeleteBackups(filename string) (bool, error) {
	result := db.Where("filename = ?", filename).Delete(&models.Backup{})
	if result.Error != nil {
		return false, fmt.Errorf("delete backups: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
