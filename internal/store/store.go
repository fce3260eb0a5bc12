// Package store persists manual and learned product-name category mappings.
// Mappings are exact-name overrides consulted before the rule table, so a
// product the fallback classifier resolved once never needs a second call.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"hkim/sales-report/internal/logging"
	"hkim/sales-report/internal/models"

	"gopkg.in/yaml.v3"
)

// MappingStore manages loading and saving of product-name mappings.
type MappingStore struct {
	MappingsFile string

	mu       sync.Mutex
	mappings map[string]models.CategoryPair
	isDirty  bool
	logger   logging.Logger
}

// NewMappingStore creates a store backed by the given YAML file.
func NewMappingStore(mappingsFile string, logger logging.Logger) *MappingStore {
	if mappingsFile == "" {
		mappingsFile = "mappings.yaml"
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &MappingStore{
		MappingsFile: mappingsFile,
		mappings:     make(map[string]models.CategoryPair),
		logger:       logger,
	}
}

// findConfigFile looks for the mappings file in standard locations.
func (s *MappingStore) findConfigFile() (string, error) {
	if filepath.IsAbs(s.MappingsFile) {
		if _, err := os.Stat(s.MappingsFile); err == nil {
			return s.MappingsFile, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		s.MappingsFile,
		filepath.Join("config", s.MappingsFile),
		filepath.Join("database", s.MappingsFile),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "sales-report", s.MappingsFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}
	return "", os.ErrNotExist
}

// Load reads the mappings file. A missing file is not an error; it yields an
// empty mapping set.
func (s *MappingStore) Load() (map[string]models.CategoryPair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath, err := s.findConfigFile()
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.WithField(logging.FieldFile, s.MappingsFile).
				Debug("Mappings file not found, starting empty")
			return s.copyMappings(), nil
		}
		return nil, fmt.Errorf("error resolving mappings file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading mappings file: %w", err)
	}

	var mappings map[string]models.CategoryPair
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error parsing mappings file: %w", err)
	}

	s.mappings = make(map[string]models.CategoryPair, len(mappings))
	for name, pair := range mappings {
		s.mappings[name] = pair
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(mappings)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
	).Debug("Loaded product mappings")
	return s.copyMappings(), nil
}

// Learn records a mapping so later runs resolve the name without the
// fallback service. Sentinel results are not worth remembering.
func (s *MappingStore) Learn(productName string, pair models.CategoryPair) {
	if pair.IsZero() || pair.Major == models.MajorUnclassified {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.mappings[productName]; ok && existing == pair {
		return
	}
	s.mappings[productName] = pair
	s.isDirty = true
}

// Save writes the mappings back to disk if they changed since Load.
func (s *MappingStore) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isDirty {
		return nil
	}

	filePath, err := s.findConfigFile()
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("error resolving mappings file: %w", err)
		}
		filePath = s.MappingsFile
		if !filepath.IsAbs(filePath) {
			filePath = filepath.Join("database", filePath)
		}
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	data, err := yaml.Marshal(s.mappings)
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("error writing mappings: %w", err)
	}

	s.isDirty = false
	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(s.mappings)},
		logging.Field{Key: logging.FieldFile, Value: filePath},
	).Debug("Saved product mappings")
	return nil
}

func (s *MappingStore) copyMappings() map[string]models.CategoryPair {
	out := make(map[string]models.CategoryPair, len(s.mappings))
	for name, pair := range s.mappings {
		out[name] = pair
	}
	return out
}
