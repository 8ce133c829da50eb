// Package store keeps the values of a form's fields and persists them as a
// YAML document. Each field gets an editor.HostAdapter that writes the
// control's changes back into the store.
package store

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/inlineedit/internal/editor"
	"github.com/zjrosen/inlineedit/internal/log"
)

// ErrUnknownField is returned for a name the store was not created with.
var ErrUnknownField = errors.New("unknown field")

// Store holds one value per declared field name. It is safe for concurrent
// use.
type Store struct {
	mu      sync.Mutex
	path    string
	names   []string
	values  map[string]editor.Value
	touched map[string]bool
	dirty   bool
}

// New creates an empty store for names. An empty path keeps the values in
// memory only.
func New(path string, names []string) *Store {
	s := &Store{
		path:    path,
		names:   append([]string(nil), names...),
		values:  make(map[string]editor.Value, len(names)),
		touched: make(map[string]bool),
	}
	for _, n := range names {
		s.values[n] = nil
	}
	return s
}

// Open creates a store for names and loads the values saved at path. A
// missing file is not an error. Saved values for undeclared names are
// dropped.
func Open(path string, names []string) (*Store, error) {
	s := New(path, names)
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: user-chosen values file
	if errors.Is(err, os.ErrNotExist) {
		log.Debug(log.CatStore, "no values file", "path", path)
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read values %s: %w", path, err)
	}

	var saved map[string]editor.Value
	if err := yaml.Unmarshal(data, &saved); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	for name, v := range saved {
		if _, ok := s.values[name]; !ok {
			log.Warn(log.CatStore, "dropping undeclared value", "field", name)
			continue
		}
		s.values[name] = v
	}
	log.Debug(log.CatStore, "values loaded", "path", path, "count", len(saved))
	return s, nil
}

// Declare adds name to the store. Declaring a known name does nothing.
func (s *Store) Declare(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[name]; ok {
		return
	}
	s.names = append(s.names, name)
	s.values[name] = nil
}

// Seed sets name to v unless the store already holds a non-nil value for it.
func (s *Store) Seed(name string, v editor.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.values[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if cur == nil {
		s.values[name] = v
	}
	return nil
}

// Get returns the value of name.
func (s *Store) Get(name string) (editor.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return v, nil
}

// Set stores v for name and marks the store dirty when the value changed.
func (s *Store) Set(name string, v editor.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.values[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if editor.Equal(cur, v) {
		return nil
	}
	s.values[name] = v
	s.dirty = true
	log.Debug(log.CatStore, "set", "field", name, "value", editor.ValueString(v))
	return nil
}

// Touch records that the user finished an edit of name.
func (s *Store) Touch(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched[name] = true
}

// Touched reports whether name was touched.
func (s *Store) Touched(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched[name]
}

// Dirty reports whether values changed since the last load or save.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Names returns the declared field names in order.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...)
}

// Snapshot returns a copy of every value.
func (s *Store) Snapshot() map[string]editor.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.values)
}

// Path returns the file the store saves to.
func (s *Store) Path() string {
	return s.path
}

// Save writes the values to the store's file. It writes a temporary file
// and renames it over the target.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.path == "" {
		s.dirty = false
		return nil
	}

	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal values: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create values dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write values: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace values %s: %w", s.path, err)
	}
	s.dirty = false
	log.Info(log.CatStore, "values saved", "path", s.path)
	return nil
}

// Field returns the host adapter binding a control to name.
func (s *Store) Field(name string) editor.HostAdapter {
	return fieldHost{store: s, name: name}
}

type fieldHost struct {
	store *Store
	name  string
}

func (h fieldHost) OnChange(v editor.Value) {
	if err := h.store.Set(h.name, v); err != nil {
		log.ErrorErr(log.CatStore, "change rejected", err, "field", h.name)
	}
}

func (h fieldHost) OnTouched() {
	h.store.Touch(h.name)
}
