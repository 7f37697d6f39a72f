package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/asteroid-belt/ccm/internal/models"
)

// currentPathID is the only row id used by the current-path tables.
const currentPathID = 1

// CreateConfigPath stores a new bookmark.
func (db *DB) CreateConfigPath(req models.CreateConfigPathRequest) (*models.ConfigPath, error) {
	now := db.timestamp()
	p := &models.ConfigPath{
		ID:          newID(),
		Name:        req.Name,
		Path:        req.Path,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(p).Error; err != nil {
		return nil, fmt.Errorf("create config path: %w", err)
	}
	return p, nil
}

// ListConfigPaths returns bookmarks newest first.
func (db *DB) ListConfigPaths() ([]models.ConfigPath, error) {
	var paths []models.ConfigPath
	if err := db.Order("created_at DESC").Find(&paths).Error; err != nil {
		return nil, fmt.Errorf("list config paths: %w", err)
	}
	return paths, nil
}

// GetConfigPath returns the bookmark with the given id, or nil.
func (db *DB) GetConfigPath(id string) (*models.ConfigPath, error) {
	var p models.ConfigPath
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get config path: %w", err)
	}
	return &p, nil
}

// UpdateConfigPath applies the non-nil fields of req.
func (db *DB) UpdateConfigPath(id string, req models.UpdateConfigPathRequest) (*models.ConfigPath, error) {
	var updated *models.ConfigPath
	err := db.Transaction(func(tx *DB) error {
		p, err := tx.GetConfigPath(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("config path %s: %w", id, ErrNotFound)
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Path != nil {
			p.Path = *req.Path
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		p.UpdatedAt = tx.timestamp()
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("update config path: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteConfigPath removes the bookmark. It reports whether a row was deleted.
func (db *DB) DeleteConfigPath(id string) (bool, error) {
	result := db.Where("id = ?", id).Delete(&models.ConfigPath{})
	if result.Error != nil {
		return false, fmt.Errorf("delete config path: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetCurrentConfigPath returns the settings path in use. When none has been
// recorded, defaultPath is stored and returned.
func (db *DB) GetCurrentConfigPath(defaultPath string) (string, error) {
	var cur models.CurrentConfigPath
	err := db.Order("updated_at DESC").First(&cur).Error
	if err == nil {
		return cur.Path, nil
	}
	if !notFound(err) {
		return "", fmt.Errorf("get current config path: %w", err)
	}
	if err := db.SetCurrentConfigPath(defaultPath); err != nil {
		return "", err
	}
	return defaultPath, nil
}

// SetCurrentConfigPath replaces the current settings path.
func (db *DB) SetCurrentConfigPath(path string) error {
	err := db.Transaction(func(tx *DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CurrentConfigPath{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.CurrentConfigPath{
			ID:        currentPathID,
			Path:      path,
			UpdatedAt: tx.timestamp(),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("set current config path: %w", err)
	}
	return nil
}

// GetCurrentRouterConfigPath returns the custom router config path, or ""
// when the built-in location is in use.
func (db *DB) GetCurrentRouterConfigPath() (string, error) {
	var cur models.CurrentRouterConfigPath
	err := db.Order("updated_at DESC").First(&cur).Error
	if err != nil {
		if notFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("get current router config path: %w", err)
	}
	return cur.Path, nil
}

// SetCurrentRouterConfigPath replaces the custom router config path.
func (db *DB) SetCurrentRouterConfigPath(path string) error {
	err := db.Transaction(func(tx *DB) error {
		if err := tx.clearRouterPath(); err != nil {
			return err
		}
		return tx.Create(&models.CurrentRouterConfigPath{
			ID:        currentPathID,
			Path:      path,
			UpdatedAt: tx.timestamp(),
		}).Error
	})
	if err != nil {
		return fmt.Errorf("set current router config path: %w", err)
	}
	return nil
}

// ClearCurrentRouterConfigPath goes back to the built-in router config location.
func (db *DB) ClearCurrentRouterConfigPath() error {
	if err := db.clearRouterPath(); err != nil {
		return fmt.Errorf("clear current router config path: %w", err)
	}
	return nil
}

func (db *DB) clearRouterPath() error {
	return db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.CurrentRouterConfigPath{}).Error
}
