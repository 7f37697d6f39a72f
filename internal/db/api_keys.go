package db

import (
	"fmt"

	"github.com/asteroid-belt/ccm/internal/models"
)

// CreateAPIKey stores a new, active API key. Names need not be unique.
func (db *DB) CreateAPIKey(req models.CreateAPIKeyRequest) (*models.APIKey, error) {
	now := db.timestamp()
	key := &models.APIKey{
		ID:          newID(),
		Name:        req.Name,
		Token:       req.Token,
		Description: req.Description,
		BaseURL:     req.BaseURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := db.Create(key).Error; err != nil {
		return nil, fmt.Errorf("create api key: %w", err)
	}
	return key, nil
}

// ListAPIKeys returns active keys first, newest first within each group.
func (db *DB) ListAPIKeys() ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := db.Order("is_active DESC, created_at DESC").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

// GetAPIKey returns the key with the given id, or nil if there is none.
func (db *DB) GetAPIKey(id string) (*models.APIKey, error) {
	var key models.APIKey
	if err := db.Where("id = ?", id).First(&key).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get api key: %w", err)
	}
	return &key, nil
}

// UpdateAPIKey applies the non-nil fields of req.
func (db *DB) UpdateAPIKey(id string, req models.UpdateAPIKeyRequest) (*models.APIKey, error) {
	var updated *models.APIKey
	err := db.Transaction(func(tx *DB) error {
		key, err := tx.GetAPIKey(id)
		if err != nil {
			return err
		}
		if key == nil {
			return fmt.Errorf("api key %s: %w", id, ErrNotFound)
		}

		if req.Name != nil {
			key.Name = *req.Name
		}
		if req.Token != nil {
			key.Token = *req.Token
		}
		if req.Description != nil {
			key.Description = req.Description
		}
		if req.BaseURL != nil {
			key.BaseURL = req.BaseURL
		}
		key.UpdatedAt = tx.timestamp()

		if err := tx.Save(key).Error; err != nil {
			return fmt.Errorf("update api key: %w", err)
		}
		updated = key
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ToggleAPIKeyActive flips the active flag.
func (db *DB) ToggleAPIKeyActive(id string) (*models.APIKey, error) {
	var toggled *models.APIKey
	err := db.Transaction(func(tx *DB) error {
		key, err := tx.GetAPIKey(id)
		if err != nil {
			return err
		}
		if key == nil {
			return fmt.Errorf("api key %s: %w", id, ErrNotFound)
		}
		key.IsActive = !key.IsActive
		key.UpdatedAt = tx.timestamp()
		if err := tx.Save(key).Error; err != nil {
			return fmt.Errorf("toggle api key: %w", err)
		}
		toggled = key
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toggled, nil
}

// DeleteAPIKey removes the key. It reports whether a row was deleted.
func (db *DB) DeleteAPIKey(id string) (bool, error) {
	result := db.Where("id = ?", id).Delete(&models.APIKey{})
	if result.Error != nil {
		return false, fmt.Errorf("delete api key: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListAPIKeyConfigItems returns every key in its settings-shaped view.
func (db *DB) ListAPIKeyConfigItems() ([]models.ConfigItem, error) {
	keys, err := db.ListAPIKeys()
	if err != nil {
		return nil, err
	}
	items := make([]models.ConfigItem, 0, len(keys))
	for i := range keys {
		items = append(items, keys[i].ConfigItem())
	}
	return items, nil
}
