package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/asteroid-belt/ccm/internal/config"
	"github.com/asteroid-belt/ccm/internal/db"
	"github.com/asteroid-belt/ccm/internal/log"
	"github.com/asteroid-belt/ccm/internal/settings"
)

// Service reads and writes the router config.
type Service struct {
	db          *db.DB
	defaultPath string
	now         func() time.Time
}

// NewService creates a router service. defaultPath is used while no custom
// path is recorded in the database.
func NewService(database *db.DB, defaultPath string) *Service {
	if defaultPath == "" {
		defaultPath = config.DefaultRouterConfigPath
	}
	return &Service{db: database, defaultPath: defaultPath, now: time.Now}
}

// Path returns the router config file in use, with "~" expanded.
func (s *Service) Path() (string, error) {
	custom, err := s.db.GetCurrentRouterConfigPath()
	if err != nil {
		return "", err
	}
	if custom != "" {
		return config.ExpandHome(custom), nil
	}
	return config.ExpandHome(s.defaultPath), nil
}

// SetPath records a custom router config path.
func (s *Service) SetPath(path string) error {
	return s.db.SetCurrentRouterConfigPath(path)
}

// ResetPath goes back to the default router config path.
func (s *Service) ResetPath() error {
	return s.db.ClearCurrentRouterConfigPath()
}

// Get returns the stored config. The first call on an empty provider table
// imports the file, if it holds a valid config.
func (s *Service) Get(ctx context.Context) (*Config, error) {
	store := s.db.WithContext(ctx)

	n, err := store.CountProviders()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		imported, err := s.importFile(ctx)
		if err != nil {
			return nil, err
		}
		if imported != nil {
			return imported, nil
		}
	}

	return s.load(store)
}

func (s *Service) load(store *db.DB) (*Config, error) {
	providers, err := store.ListProviders()
	if err != nil {
		return nil, err
	}
	stored, err := store.ListRouterSettings()
	if err != nil {
		return nil, err
	}
	return fromModels(providers, stored), nil
}

// importFile reads the file into the database. It returns nil when the file
// is missing or does not hold a config.
func (s *Service) importFile(ctx context.Context) (*Config, error) {
	path, err := s.Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read router config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		log.WithField("path", path).Debugf("router config not importable: %v", err)
		return nil, nil
	}

	if err := s.Update(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Update stores cfg and rewrites the file from it.
func (s *Service) Update(ctx context.Context, cfg *Config) error {
	providers, values, err := cfg.toModels()
	if err != nil {
		return fmt.Errorf("encode router config: %w", err)
	}
	if err := s.db.WithContext(ctx).ReplaceRouterConfig(providers, values); err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return fmt.Errorf("encode router config: %w", err)
	}
	path, err := s.Path()
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// Raw returns the file verbatim. A missing file is created with the default
// config.
func (s *Service) Raw() (string, error) {
	path, err := s.Path()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read router config: %w", err)
	}

	data, err = DefaultConfig().Marshal()
	if err != nil {
		return "", err
	}
	if err := writeFile(path, data); err != nil {
		return "", err
	}
	return string(data), nil
}

// SaveRaw writes content verbatim after checking that it is valid JSON.
// The database is not touched.
func (s *Service) SaveRaw(content string) error {
	if !json.Valid([]byte(content)) {
		return settings.ErrInvalidFormat
	}
	path, err := s.Path()
	if err != nil {
		return err
	}
	return writeFile(path, []byte(content))
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create router config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write router config: %w", err)
	}
	return nil
}
