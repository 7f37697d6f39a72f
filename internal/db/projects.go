package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/asteroid-belt/ccm/internal/models"
)

func (db *DB) newProject(req models.CreateProjectRequest, now string) *models.Project {
	frameworks := req.Frameworks
	if frameworks == nil {
		frameworks = []string{}
	}
	return &models.Project{
		ID:          newID(),
		Name:        req.Name,
		Path:        req.Path,
		Category:    req.Category,
		Frameworks:  frameworks,
		ProjectType: req.ProjectType,
		Description: req.Description,
		ScanTime:    now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func createProjectErr(path string, err error) error {
	if isDuplicate(err) {
		return fmt.Errorf("project %s: %w", path, ErrDuplicateName)
	}
	return fmt.Errorf("create project: %w", err)
}

// CreateProject stores a new project. Paths are unique.
func (db *DB) CreateProject(req models.CreateProjectRequest) (*models.Project, error) {
	p := db.newProject(req, db.timestamp())
	if err := db.Create(p).Error; err != nil {
		return nil, createProjectErr(req.Path, err)
	}
	return p, nil
}

// BulkCreateProjects stores all projects in one transaction. Either every
// project is stored or none is.
func (db *DB) BulkCreateProjects(reqs []models.CreateProjectRequest) ([]models.Project, error) {
	created := make([]models.Project, 0, len(reqs))
	err := db.Transaction(func(tx *DB) error {
		now := tx.timestamp()
		for _, req := range reqs {
			p := tx.newProject(req, now)
			if err := tx.Create(p).Error; err != nil {
				return createProjectErr(req.Path, err)
			}
			created = append(created, *p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListProjects returns projects ordered by name.
func (db *DB) ListProjects() ([]models.Project, error) {
	var projects []models.Project
	if err := db.Order("name").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ListProjectsByCategory returns the projects of one category ordered by name.
func (db *DB) ListProjectsByCategory(category string) ([]models.Project, error) {
	var projects []models.Project
	if err := db.Where("category = ?", category).Order("name").Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects by category: %w", err)
	}
	return projects, nil
}

// GetProject returns the project with the given id, or nil.
func (db *DB) GetProject(id string) (*models.Project, error) {
	var p models.Project
	if err := db.Where("id = ?", id).First(&p).Error; err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// UpdateProject applies the non-nil fields of req. The scan time is kept.
func (db *DB) UpdateProject(id string, req models.UpdateProjectRequest) (*models.Project, error) {
	var updated *models.Project
	err := db.Transaction(func(tx *DB) error {
		p, err := tx.GetProject(id)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("project %s: %w", id, ErrNotFound)
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Path != nil {
			p.Path = *req.Path
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Frameworks != nil {
			p.Frameworks = *req.Frameworks
		}
		if req.ProjectType != nil {
			p.ProjectType = *req.ProjectType
		}
		if req.Description != nil {
			p.Description = req.Description
		}
		if p.Frameworks == nil {
			p.Frameworks = []string{}
		}
		p.UpdatedAt = tx.timestamp()
		if err := tx.Save(p).Error; err != nil {
			if isDuplicate(err) {
				return fmt.Errorf("project %s: %w", p.Path, ErrDuplicateName)
			}
			return fmt.Errorf("update project: %w", err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProject removes the project. It reports whether a row was deleted.
func (db *DB) DeleteProject(id string) (bool, error) {
	result := db.Where("id = ?", id).Delete(&models.Project{})
	if result.Error != nil {
		return false, fmt.Errorf("delete project: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ClearProjects removes every project and returns how many were removed.
func (db *DB) ClearProjects() (int64, error) {
	result := db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Project{})
	if result.Error != nil {
		return 0, fmt.Errorf("clear projects: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// ProjectPaths returns the set of stored project paths.
func (db *DB) ProjectPaths() (map[string]bool, error) {
	var paths []string
	if err := db.Model(&models.Project{}).Pluck("path", &paths).Error; err != nil {
		return nil, fmt.Errorf("list project paths: %w", err)
	}
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set, nil
}
