package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/DeskOS/backend/internal/shared/types"
)

// catalogFile is the on-disk shape of a catalog file
type catalogFile struct {
	Apps []types.AppDescriptor `yaml:"apps" toml:"apps"`
}

// Seeder handles loading app descriptors on startup
type Seeder struct {
	manager *Manager
	logger  *zap.Logger
}

// NewSeeder creates a new registry seeder
func NewSeeder(manager *Manager, logger *zap.Logger) *Seeder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{
		manager: manager,
		logger:  logger,
	}
}

// SeedDefaults registers the built-in catalog
func (s *Seeder) SeedDefaults() error {
	for _, desc := range DefaultCatalog() {
		if err := s.manager.Register(desc); err != nil {
			return err
		}
	}
	s.logger.Info("Seeded built-in apps", zap.Int("count", s.manager.Len()))
	return nil
}

// SeedFiles loads every catalog file matching a doublestar pattern. A file
// that fails to parse is logged and skipped; the count of loaded entries is
// returned.
func (s *Seeder) SeedFiles(pattern string) (int, error) {
	if pattern == "" {
		return 0, nil
	}

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return 0, fmt.Errorf("invalid registry glob %q: %w", pattern, err)
	}

	var loaded, failed int
	for _, path := range paths {
		n, err := s.loadFile(path)
		if err != nil {
			s.logger.Warn("Failed to load catalog file", zap.String("path", path), zap.Error(err))
			failed++
			continue
		}
		s.logger.Debug("Loaded catalog file", zap.String("path", path), zap.Int("apps", n))
		loaded += n
	}

	s.logger.Info("Catalog seeding complete",
		zap.String("pattern", pattern),
		zap.Int("files", len(paths)),
		zap.Int("apps", loaded),
		zap.Int("failed", failed),
	)
	return loaded, nil
}

// loadFile parses one catalog file and registers its entries
func (s *Seeder) loadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	catalog, err := ParseCatalog(filepath.Ext(path), data)
	if err != nil {
		return 0, err
	}

	for _, desc := range catalog {
		if err := s.manager.Register(desc); err != nil {
			return 0, err
		}
	}
	return len(catalog), nil
}

// ParseCatalog decodes catalog data by file extension (.yaml, .yml, .toml)
func ParseCatalog(ext string, data []byte) ([]types.AppDescriptor, error) {
	var file catalogFile

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse YAML catalog: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse TOML catalog: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", ext)
	}

	for _, desc := range file.Apps {
		if err := Validate(desc); err != nil {
			return nil, err
		}
	}
	return file.Apps, nil
}
