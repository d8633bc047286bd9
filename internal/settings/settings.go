// Package settings persists user-visible editor state between runs:
// the recent-files list, window geometry, and any ad hoc keys the UI
// wants to remember. State lives in one JSON document addressed by
// dotted paths.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/quilledit/quill/internal/vfs"
)

// Store is a dotted-path JSON settings document backed by a file.
// A missing file reads as the empty document.
type Store struct {
	mu   sync.RWMutex
	fs   vfs.FS
	path string
	doc  string
}

// NewStore creates a store persisting to path on filesystem.
func NewStore(filesystem vfs.FS, path string) *Store {
	return &Store{fs: filesystem, path: path, doc: "{}"}
}

// Load reads the settings file. A missing file leaves the store empty;
// a malformed file is an error.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.doc = "{}"
			return nil
		}
		return fmt.Errorf("loading settings: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("loading settings: %s is not valid JSON", s.path)
	}
	s.doc = string(data)
	return nil
}

// Save writes the document back to the settings file.
func (s *Store) Save() error {
	s.mu.RLock()
	doc := s.doc
	s.mu.RUnlock()

	if err := s.fs.WriteFile(s.path, []byte(doc), 0644); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}

// Get returns the value at the dotted path.
func (s *Store) Get(path string) gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.Get(s.doc, path)
}

// Set stores value at the dotted path, creating intermediate objects.
func (s *Store) Set(path string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.Set(s.doc, path, value)
	if err != nil {
		return fmt.Errorf("setting %s: %w", path, err)
	}
	s.doc = doc
	return nil
}

// Delete removes the value at the dotted path.
func (s *Store) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.Delete(s.doc, path)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	s.doc = doc
	return nil
}

// Document returns the raw JSON document.
func (s *Store) Document() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// Geometry is the persisted window placement.
type Geometry struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

const geometryKey = "window.geometry"

// SetGeometry stores the window placement under window.geometry.
func (s *Store) SetGeometry(g Geometry) error {
	return s.Set(geometryKey, g)
}

// GetGeometry returns the stored window placement.
func (s *Store) GetGeometry() (Geometry, bool) {
	res := s.Get(geometryKey)
	if !res.Exists() {
		return Geometry{}, false
	}
	return Geometry{
		X:      int(res.Get("x").Int()),
		Y:      int(res.Get("y").Int()),
		Width:  int(res.Get("width").Int()),
		Height: int(res.Get("height").Int()),
	}, true
}
