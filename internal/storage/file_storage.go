// Package storage keeps every live record in memory and persists the whole set
// to a single JSON file.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/n1rna/hbnb-cli/internal/logger"
	"github.com/n1rna/hbnb-cli/internal/models"
)

// DefaultFileName is the backing file used when no path is configured.
const DefaultFileName = "file.json"

// FileStorage is the in-memory set of records keyed by "<type>.<id>", paired
// with save/reload against one JSON file.
type FileStorage struct {
	mu      sync.Mutex
	path    string
	objects map[string]models.Model
}

// NewFileStorage creates an empty storage backed by path
func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultFileName
	}
	return &FileStorage{
		path:    path,
		objects: make(map[string]models.Model),
	}
}

// Path returns the backing file path
func (s *FileStorage) Path() string {
	return s.path
}

// All returns a snapshot of the stored records. Adding or removing keys in the
// returned map does not change the storage; use New and Delete for that.
func (s *FileStorage) All() map[string]models.Model {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]models.Model, len(s.objects))
	for key, m := range s.objects {
		out[key] = m
	}
	return out
}

// Keys returns all composite keys, sorted
func (s *FileStorage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.objects))
	for key := range s.objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get looks a record up by composite key
func (s *FileStorage) Get(key string) (models.Model, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.objects[key]
	return m, ok
}

// Len returns the number of stored records
func (s *FileStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// Count returns the number of stored records of one kind
func (s *FileStorage) Count(typeName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := typeName + "."
	n := 0
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}

// New registers a record under its composite key, replacing any record
// already stored under the same key.
func (s *FileStorage) New(m models.Model) error {
	if m == nil || m.Base().ID == "" {
		return fmt.Errorf("failed to register record: %w", models.ErrMissingIdentity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[models.Key(m)] = m
	return nil
}

// Delete removes the record stored under key and reports whether it existed
func (s *FileStorage) Delete(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[key]; !ok {
		return false
	}
	delete(s.objects, key)
	return true
}

// Save rewrites the backing file with every stored record
func (s *FileStorage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := make(map[string]map[string]any, len(s.objects))
	for key, m := range s.objects {
		payload[key] = models.Serialize(m)
	}

	// Marshal to JSON with proper formatting
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal records: %w: %v", models.ErrSerialization, err)
	}
	data = append(data, '\n')

	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}

	logger.Debug("saved %d records to %s", len(payload), s.path)
	return nil
}

// Reload reads the backing file and merges its records into memory. A missing
// file is not an error. Records already in memory but absent from the file
// are kept. Any bad record, including one filed under a key other than its
// own class and id, aborts the reload before memory is touched.
func (s *FileStorage) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("no storage file at %s, starting empty", s.path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w: %v", s.path, models.ErrMalformedFile, err)
	}

	staged := make(map[string]models.Model, len(raw))
	for key, payload := range raw {
		m, err := loadRecord(key, payload)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", key, err)
		}
		staged[key] = m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, m := range staged {
		s.objects[key] = m
	}

	logger.Debug("reloaded %d records from %s", len(staged), s.path)
	return nil
}

// Problem is one record of the backing file that cannot be loaded
type Problem struct {
	Key string
	Err error
}

// Report summarizes the backing file without loading it
type Report struct {
	Exists   bool
	Counts   map[string]int
	Problems []Problem
}

// Check decodes every record of the backing file and reports the ones Reload
// would reject, sorted by key. Memory is not touched. The error is non-nil only
// when the file as a whole cannot be read or parsed.
func (s *FileStorage) Check() (*Report, error) {
	report := &Report{Counts: make(map[string]int)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return report, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	report.Exists = true

	var raw map[string]map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w: %v", s.path, models.ErrMalformedFile, err)
	}

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		m, err := loadRecord(key, raw[key])
		if err != nil {
			report.Problems = append(report.Problems, Problem{key, err})
			continue
		}
		report.Counts[m.TypeName()]++
	}

	return report, nil
}

// loadRecord decodes the record stored under key. The key must match the
// record's own class and id.
func loadRecord(key string, payload map[string]any) (models.Model, error) {
	if payload == nil {
		return nil, fmt.Errorf("%w: record is null", models.ErrMalformedFile)
	}
	m, err := decodeRecord(payload)
	if err != nil {
		return nil, err
	}
	if want := models.Key(m); want != key {
		return nil, fmt.Errorf("%w: stored under %s, expected %s", models.ErrMalformedFile, key, want)
	}
	return m, nil
}

// decodeRecord rebuilds one record using its __class__ discriminator
func decodeRecord(payload map[string]any) (models.Model, error) {
	v, ok := payload[models.ClassKey]
	if !ok {
		return nil, fmt.Errorf("%w: record has no %s", models.ErrUnknownType, models.ClassKey)
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrNullArgument, models.ClassKey)
	}
	class, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", models.ErrUnknownType, models.ClassKey)
	}

	m, err := models.Construct(class, payload)
	if err != nil {
		return nil, err
	}
	if m.Base().ID == "" {
		return nil, fmt.Errorf("%w: %s record has no id", models.ErrMissingIdentity, class)
	}
	return m, nil
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	// Create temp file in same directory for atomic rename
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}
