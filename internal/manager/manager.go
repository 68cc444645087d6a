// Package manager provides the operations the shell and CLI use to drive the
// record store: create, find, list, update and remove, each persisted to disk.
package manager

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/n1rna/hbnb-cli/internal/config"
	"github.com/n1rna/hbnb-cli/internal/logger"
	"github.com/n1rna/hbnb-cli/internal/models"
	"github.com/n1rna/hbnb-cli/internal/storage"
)

// Manager owns the process-wide store
type Manager struct {
	storage *storage.FileStorage
	config  *config.Config
}

// NewManager creates the store for cfg.FilePath and loads it from disk
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		storage: storage.NewFileStorage(cfg.FilePath),
		config:  cfg,
	}

	if err := m.LoadFromDisk(); err != nil {
		return nil, fmt.Errorf("failed to load records: %w", err)
	}

	return m, nil
}

// Storage exposes the underlying store
func (m *Manager) Storage() *storage.FileStorage {
	return m.storage
}

// IsKnownType reports whether typeName names a record kind
func (m *Manager) IsKnownType(typeName string) bool {
	return models.IsKnown(typeName)
}

// CreateNew creates a record of typeName, persists it and returns its id.
// A record that cannot be written is dropped from memory again.
func (m *Manager) CreateNew(typeName string) (string, error) {
	record, err := models.New(typeName)
	if err != nil {
		return "", err
	}
	record.Base().Save()

	if err := m.storage.New(record); err != nil {
		return "", err
	}
	if err := m.storage.Save(); err != nil {
		m.storage.Delete(models.Key(record))
		return "", fmt.Errorf("failed to persist new %s: %w", typeName, err)
	}

	logger.Info("created %s", models.Key(record))
	return record.Base().ID, nil
}

// Find returns the record of typeName with the given id
func (m *Manager) Find(typeName, id string) (models.Model, error) {
	if !models.IsKnown(typeName) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownType, typeName)
	}

	record, ok := m.storage.Get(models.KeyFor(typeName, id))
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrNotFound, models.KeyFor(typeName, id))
	}
	return record, nil
}

// ListAll returns records sorted by key. An empty filter returns every record;
// otherwise filter must be a known kind and only keys containing it are kept.
func (m *Manager) ListAll(filter string) ([]models.Model, error) {
	if filter != "" && !models.IsKnown(filter) {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownType, filter)
	}

	all := m.storage.All()
	keys := make([]string, 0, len(all))
	for key := range all {
		if filter == "" || strings.Contains(key, filter) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	records := make([]models.Model, 0, len(keys))
	for _, key := range keys {
		records = append(records, all[key])
	}
	return records, nil
}

// Count returns the number of records of typeName
func (m *Manager) Count(typeName string) (int, error) {
	if !models.IsKnown(typeName) {
		return 0, fmt.Errorf("%w: %s", models.ErrUnknownType, typeName)
	}
	return m.storage.Count(typeName), nil
}

// UpdateField sets one attribute from a raw string and persists the record
func (m *Manager) UpdateField(typeName, id, field, raw string) error {
	return m.UpdateFields(typeName, id, map[string]string{field: raw})
}

// UpdateFields sets several attributes at once. Either all of them are
// applied or, on a conversion or write error, the record keeps its previous values.
func (m *Manager) UpdateFields(typeName, id string, values map[string]string) error {
	record, err := m.Find(typeName, id)
	if err != nil {
		return err
	}

	// Validate on a copy so a bad value leaves the stored record untouched.
	scratch, err := models.Construct(typeName, models.Serialize(record))
	if err != nil {
		return fmt.Errorf("failed to copy %s: %w", models.Key(record), err)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := models.SetField(scratch, name, values[name]); err != nil {
			return err
		}
	}
	scratch.Base().Save()

	if err := m.storage.New(scratch); err != nil {
		return err
	}
	if err := m.storage.Save(); err != nil {
		_ = m.storage.New(record)
		return fmt.Errorf("failed to persist %s: %w", models.Key(scratch), err)
	}

	logger.Info("updated %s (%s)", models.Key(scratch), strings.Join(names, ", "))
	return nil
}

// Remove deletes the record of typeName with the given id and persists the store
func (m *Manager) Remove(typeName, id string) error {
	if !models.IsKnown(typeName) {
		return fmt.Errorf("%w: %s", models.ErrUnknownType, typeName)
	}

	key := models.KeyFor(typeName, id)
	record, ok := m.storage.Get(key)
	if !ok || !m.storage.Delete(key) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, key)
	}
	if err := m.storage.Save(); err != nil {
		_ = m.storage.New(record)
		return fmt.Errorf("failed to persist removal of %s: %w", key, err)
	}

	logger.Info("removed %s", key)
	return nil
}

// FlushToDisk writes the whole store to its backing file
func (m *Manager) FlushToDisk() error {
	return m.storage.Save()
}

// LoadFromDisk merges the backing file into memory
func (m *Manager) LoadFromDisk() error {
	return m.storage.Reload()
}

// Close flushes the store one last time. An empty store with no backing file
// leaves the disk untouched.
func (m *Manager) Close() error {
	if m.storage.Len() == 0 {
		if _, err := os.Stat(m.storage.Path()); os.IsNotExist(err) {
			return nil
		}
	}
	if err := m.FlushToDisk(); err != nil {
		return fmt.Errorf("failed to flush records: %w", err)
	}
	return nil
}
