package db

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/asteroid-belt/ccm/internal/models"
)

// ListProviders returns providers in the order they were written.
func (db *DB) ListProviders() ([]models.Provider, error) {
	var providers []models.Provider
	if err := db.Order("rowid").Find(&providers).Error; err != nil {
		return nil, fmt.Errorf("list providers: %w", err)
	}
	return providers, nil
}

// CountProviders returns the number of stored providers.
func (db *DB) CountProviders() (int64, error) {
	var n int64
	if err := db.Model(&models.Provider{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count providers: %w", err)
	}
	return n, nil
}

// ReplaceProviders swaps the whole provider set in one transaction.
func (db *DB) ReplaceProviders(providers []models.Provider) error {
	return db.Transaction(func(tx *DB) error {
		return tx.replaceProviders(providers)
	})
}

func (db *DB) replaceProviders(providers []models.Provider) error {
	if err := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Provider{}).Error; err != nil {
		return fmt.Errorf("delete providers: %w", err)
	}
	now := db.timestamp()
	for i := range providers {
		p := providers[i]
		p.ID = newID()
		if p.Models == nil {
			p.Models = []string{}
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := db.Create(&p).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("provider %q: %w", p.Name, ErrDuplicateName)
			}
			return fmt.Errorf("create provider %q: %w", p.Name, err)
		}
	}
	return nil
}

// GetRouterSetting returns the setting stored under key, or nil.
func (db *DB) GetRouterSetting(key string) (*models.RouterSetting, error) {
	var s models.RouterSetting
	if err := db.Where("config_key = ?", key).First(&s).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get router setting %s: %w", key, err)
	}
	return &s, nil
}

// ListRouterSettings returns every stored setting keyed by name.
func (db *DB) ListRouterSettings() (map[string]string, error) {
	var rows []models.RouterSetting
	if err := db.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list router settings: %w", err)
	}
	settings := make(map[string]string, len(rows))
	for _, r := range rows {
		settings[r.ConfigKey] = r.ConfigValue
	}
	return settings, nil
}

// SetRouterSetting inserts or replaces the value stored under key.
func (db *DB) SetRouterSetting(key, value string) error {
	now := db.timestamp()
	s := models.RouterSetting{
		ID:          newID(),
		ConfigKey:   key,
		ConfigValue: value,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"config_value", "updated_at"}),
	}).Create(&s).Error
	if err != nil {
		return fmt.Errorf("set router setting %s: %w", key, err)
	}
	return nil
}

// DeleteRouterSetting removes the setting. It reports whether a row was deleted.
func (db *DB) DeleteRouterSetting(key string) (bool, error) {
	result := db.Where("config_key = ?", key).Delete(&models.RouterSetting{})
	if result.Error != nil {
		return false, fmt.Errorf("delete router setting %s: %w", key, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ReplaceRouterConfig stores a complete router configuration in one
// transaction: the provider set is replaced and each setting is written,
// or deleted when its value is nil.
func (db *DB) ReplaceRouterConfig(providers []models.Provider, settings map[string]*string) error {
	return db.Transaction(func(tx *DB) error {
		if err := tx.replaceProviders(providers); err != nil {
			return err
		}
		for key, value := range settings {
			if value == nil {
				if _, err := tx.DeleteRouterSetting(key); err != nil {
					return err
				}
				continue
			}
			if err := tx.SetRouterSetting(key, *value); err != nil {
				return err
			}
		}
		return nil
	})
}
