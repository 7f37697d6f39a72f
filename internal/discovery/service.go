package discovery

import (
	"context"
	"path/filepath"

	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/log"
	"github.com/asteroid-belt/ccm/internal/models"
)

// Service scans directories and stores the projects found.
type Service struct {
	db      *db.DB
	scanner *Scanner
}

// NewService creates a new discovery service.
func NewService(database *db.DB) *Service {
	return &Service{db: database, scanner: NewScanner()}
}

// ScanAndSave scans root, stores projects whose path is not yet known under
// a category named after root, and returns every stored project.
func (s *Service) ScanAndSave(ctx context.Context, root string, opts ScanOptions) ([]models.Project, error) {
	root = filepath.Clean(root)
	found, err := s.scanner.Scan(root, opts)
	if err != nil {
		return nil, err
	}

	store := s.db.WithContext(ctx)
	category := s.ensureCategory(store, filepath.Base(root))

	known, err := store.ProjectPaths()
	if err != nil {
		return nil, err
	}

	fresh := make([]models.CreateProjectRequest, 0, len(found))
	for _, p := range found {
		if known[p.Path] {
			continue
		}
		p.Category = category
		fresh = append(fresh, p)
	}

	if len(fresh) > 0 {
		if _, err := store.BulkCreateProjects(fresh); err != nil {
			return nil, err
		}
	}
	log.WithField("root", root).Debugf("scan found %d projects, %d new", len(found), len(fresh))

	return store.ListProjects()
}

// ensureCategory returns name, creating the category when it is missing.
// The name is used even if creation fails.
func (s *Service) ensureCategory(store *db.DB, name string) string {
	existing, err := store.GetCategoryByName(name)
	if err == nil && existing != nil {
		return existing.Name
	}
	if _, err := store.CreateCategory(name); err != nil {
		log.WithField("category", name).Debugf("create category: %v", err)
	}
	return name
}
