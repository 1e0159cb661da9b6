package config

import (
	"context"
	"slices"
	"sync"

	"github.com/mj1618/formfill/internal/model"
)

// Reader streams a configuration source to a Listener.
type Reader interface {
	Read(ctx context.Context, src Source, l Listener) error
	VariablePattern() string
}

// StoreListener is told about the outcome of every load.
type StoreListener interface {
	OnConfigurationCompleted(packages, profiles []string)
	OnConfigurationFailed(message string)
	OnResendConfiguration(packages []string)
}

// Store holds the configuration that was loaded last: candidate items
// grouped by field id, the package allowlist, and the profile names.
//
// Store is safe for concurrent use. Readers see either the state before a
// load started, the cleared state, or the fully populated state; partially
// applied documents are never visible because Apply holds the write lock
// for the whole document.
type Store struct {
	mu       sync.RWMutex
	reader   Reader
	listener StoreListener

	fieldIDs []string
	groups   map[string][]*model.Item
	packages []string
	profiles []string
}

// NewStore creates an empty store that loads through reader.
func NewStore(reader Reader) *Store {
	return &Store{
		reader: reader,
		groups: make(map[string][]*model.Item),
	}
}

// SetListener sets the listener notified about load outcomes.
func (s *Store) SetListener(l StoreListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

// Load clears the store and reads src into it. The listener is notified
// about success or failure. A failed load leaves the store empty.
func (s *Store) Load(ctx context.Context, src Source) error {
	s.BeginLoad()
	doc := &Document{}
	err := s.reader.Read(ctx, src, doc)
	s.Apply(doc)
	return err
}

// BeginLoad clears all indices.
func (s *Store) BeginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldIDs = nil
	s.groups = make(map[string][]*model.Item)
	s.packages = nil
	s.profiles = nil
}

// Apply adds everything recorded in doc and publishes the outcome. A failed
// document adds nothing: the store keeps whatever it held before Apply.
func (s *Store) Apply(doc *Document) {
	if doc.Failed {
		s.OnReadingFailed(doc.Message)
		return
	}

	s.mu.Lock()
	for _, pkg := range doc.Packages {
		s.addPackageLocked(pkg)
	}
	for _, item := range doc.Items {
		s.addItemLocked(item)
	}
	s.mu.Unlock()

	if doc.Completed {
		s.OnReadingCompleted()
	}
}

// AddPackage appends a package name to the allowlist.
func (s *Store) AddPackage(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addPackageLocked(name)
}

// AddConfigurationItem appends item to its field id group and records its
// profile.
func (s *Store) AddConfigurationItem(item *model.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addItemLocked(item)
}

func (s *Store) addPackageLocked(name string) {
	s.packages = append(s.packages, name)
}

func (s *Store) addItemLocked(item *model.Item) {
	if _, ok := s.groups[item.ID]; !ok {
		s.fieldIDs = append(s.fieldIDs, item.ID)
	}
	s.groups[item.ID] = append(s.groups[item.ID], item)
	if item.HasProfile() && !slices.Contains(s.profiles, item.Profile) {
		s.profiles = append(s.profiles, item.Profile)
	}
}

// OnPackageName implements Listener.
func (s *Store) OnPackageName(name string) {
	s.AddPackage(name)
}

// OnConfigurationItem implements Listener.
func (s *Store) OnConfigurationItem(item *model.Item) {
	s.AddConfigurationItem(item)
}

// OnReadingCompleted implements Listener and publishes packages and profiles.
func (s *Store) OnReadingCompleted() {
	s.mu.RLock()
	l := s.listener
	packages := slices.Clone(s.packages)
	profiles := slices.Clone(s.profiles)
	s.mu.RUnlock()
	if l != nil {
		l.OnConfigurationCompleted(packages, profiles)
	}
}

// OnReadingFailed implements Listener and publishes the error message.
func (s *Store) OnReadingFailed(message string) {
	s.mu.RLock()
	l := s.listener
	s.mu.RUnlock()
	if l != nil {
		l.OnConfigurationFailed(message)
	}
}

// ResendConfigurationData republishes the package list without reading the
// source again. Nothing is sent while no package is known.
func (s *Store) ResendConfigurationData() {
	s.mu.RLock()
	l := s.listener
	packages := slices.Clone(s.packages)
	s.mu.RUnlock()
	if l != nil && len(packages) > 0 {
		l.OnResendConfiguration(packages)
	}
}

// VariablePattern returns the reader's variable token pattern.
func (s *Store) VariablePattern() string {
	if s.reader == nil {
		return ""
	}
	return s.reader.VariablePattern()
}

// Packages returns the package allowlist in declaration order.
func (s *Store) Packages() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.packages)
}

// HasPackage reports whether name was declared in the configuration.
func (s *Store) HasPackage(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.packages, name)
}

// Profiles returns the distinct profile names in first-seen order.
func (s *Store) Profiles() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.profiles)
}

// NumberOfProfiles returns how many distinct profiles were loaded.
func (s *Store) NumberOfProfiles() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}

// FieldIDs returns the field ids in the order they were first seen.
func (s *Store) FieldIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.fieldIDs)
}

// Group returns the candidates for a field id in declaration order.
// The items are shared with the store and must not be modified.
func (s *Store) Group(fieldID string) []*model.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.groups[fieldID])
}

// Summary is a printable view of the store.
type Summary struct {
	Packages []string       `yaml:"packages"           json:"packages"`
	Profiles []string       `yaml:"profiles,omitempty" json:"profiles,omitempty"`
	Fields   []FieldSummary `yaml:"fields"             json:"fields"`
}

// FieldSummary lists the candidates of one field id.
type FieldSummary struct {
	ID    string        `yaml:"id"    json:"id"`
	Items []*model.Item `yaml:"items" json:"items"`
}

// Summary returns a snapshot of the store for printing.
func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum := Summary{
		Packages: slices.Clone(s.packages),
		Profiles: slices.Clone(s.profiles),
		Fields:   make([]FieldSummary, 0, len(s.fieldIDs)),
	}
	for _, id := range s.fieldIDs {
		sum.Fields = append(sum.Fields, FieldSummary{ID: id, Items: slices.Clone(s.groups[id])})
	}
	return sum
}
