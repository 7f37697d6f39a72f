package db

import (
	"fmt"

	"github.com/asteroid-belt/ccm/internal/models"
)

// CreateCategory stores a new category. Names are unique.
func (db *DB) CreateCategory(name string) (*models.Category, error) {
	existing, err := db.GetCategoryByName(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
	}

	now := db.timestamp()
	c := &models.Category{
		ID:        newID(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(c).Error; err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("category %q: %w", name, ErrDuplicateName)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

// ListCategories returns categories ordered by name.
func (db *DB) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := db.Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByName returns the named category, or nil.
func (db *DB) GetCategoryByName(name string) (*models.Category, error) {
	var c models.Category
	if err := db.Where("name = ?", name).First(&c).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// DeleteCategory removes the named category. Projects that refer to it keep
// the name.
func (db *DB) DeleteCategory(name string) error {
	result := db.Where("name = ?", name).Delete(&models.Category{})
	if result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("category %q: %w", name, ErrNotFound)
	}
	return nil
}
