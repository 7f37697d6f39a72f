package db

import (
	"fmt"

	"github.com/asteroid-belt/ccm/internal/models"
)

// CreateRouteConfig stores a new route.
func (db *DB) CreateRouteConfig(req models.CreateRouteConfigRequest) (*models.RouteConfig, error) {
	now := db.timestamp()
	rc := &models.RouteConfig{
		ID:           newID(),
		Name:         req.Name,
		Path:         req.Path,
		Method:       req.Method,
		Handler:      req.Handler,
		Middleware:   req.Middleware,
		AuthRequired: req.AuthRequired,
		Description:  req.Description,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(rc).Error; err != nil {
		return nil, fmt.Errorf("create route config: %w", err)
	}
	return rc, nil
}

// ListRouteConfigs returns routes newest first.
func (db *DB) ListRouteConfigs() ([]models.RouteConfig, error) {
	var routes []models.RouteConfig
	if err := db.Order("created_at DESC").Find(&routes).Error; err != nil {
		return nil, fmt.Errorf("list route configs: %w", err)
	}
	return routes, nil
}

// GetRouteConfig returns the route with the given id, or nil.
func (db *DB) GetRouteConfig(id string) (*models.RouteConfig, error) {
	var rc models.RouteConfig
	if err := db.Where("id = ?", id).First(&rc).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route config: %w", err)
	}
	return &rc, nil
}

// UpdateRouteConfig applies the non-nil fields of req.
func (db *DB) UpdateRouteConfig(id string, req models.UpdateRouteConfigRequest) (*models.RouteConfig, error) {
	var updated *models.RouteConfig
	err := db.Transaction(func(tx *DB) error {
		rc, err := tx.GetRouteConfig(id)
		if err != nil {
			return err
		}
		if rc == nil {
			return fmt.Errorf("route config %s: %w", id, ErrNotFound)
		}
		if req.Name != nil {
			rc.Name = *req.Name
		}
		if req.Path != nil {
			rc.Path = *req.Path
		}
		if req.Method != nil {
			rc.Method = *req.Method
		}
		if req.Handler != nil {
			rc.Handler = *req.Handler
		}
		if req.Middleware != nil {
			rc.Middleware = *req.Middleware
		}
		if req.AuthRequired != nil {
			rc.AuthRequired = *req.AuthRequired
		}
		if req.Description != nil {
			rc.Description = req.Description
		}
		rc.UpdatedAt = tx.timestamp()
		if err := tx.Save(rc).Error; err != nil {
			return fmt.Errorf("update route config: %w", err)
		}
		updated = rc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRouteConfig removes the route. It reports whether a row was deleted.
func (db *DB) DeleteRouteConfig(id string) (bool, error) {
	result := db.Where("id = ?", id).Delete(&models.RouteConfig{})
	if result.Error != nil {
		return false, fmt.Errorf("delete route config: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
