// Package prefs persists the small amount of state that outlives a
// session: the fast mode flag and the last configuration source.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/mj1618/formfill/internal/config"
	"gopkg.in/yaml.v3"
)

// Prefs is the persisted state.
type Prefs struct {
	FastMode       bool           `yaml:"fast_mode"                  json:"fast_mode"`
	LastSource     *config.Source `yaml:"last_source,omitempty"      json:"last_source,omitempty"`
	LastSourceName string         `yaml:"last_source_name,omitempty" json:"last_source_name,omitempty"`
}

// Store loads and saves Prefs.
type Store interface {
	Load() (Prefs, error)
	Save(p Prefs) error
}

var validate = validator.New()

// Validate checks a Prefs value.
func Validate(p Prefs) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/formfill/prefs.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "formfill", "prefs.yaml"), nil
}

// FileStore keeps Prefs in a YAML file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the file. A missing file yields zero Prefs.
func (s *FileStore) Load() (Prefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p Prefs
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("read preferences: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Prefs{}, fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	if err := Validate(p); err != nil {
		return Prefs{}, err
	}
	return p, nil
}

// Save writes the file, creating its directory.
func (s *FileStore) Save(p Prefs) error {
	if err := Validate(p); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return os.Rename(tmp, s.path)
}

// MemoryStore keeps Prefs in memory.
type MemoryStore struct {
	mu    sync.Mutex
	prefs Prefs
	saves int
}

// Load returns the stored Prefs.
func (m *MemoryStore) Load() (Prefs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prefs, nil
}

// Save replaces the stored Prefs.
func (m *MemoryStore) Save(p Prefs) error {
	if err := Validate(p); err != nil {
		return err
	}
	m.mu.Lock()
	m.prefs = p
	m.saves++
	m.mu.Unlock()
	return nil
}

// Saves returns how many times Save succeeded.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Update loads, modifies and saves Prefs in one step.
func Update(s Store, fn func(*Prefs)) error {
	p, err := s.Load()
	if err != nil {
		return err
	}
	fn(&p)
	return s.Save(p)
}
