package vfs

import (
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemFS implements FS with an in-memory file map. It exists for tests:
// contents and modification times are fully controllable.
//
// MemFS is safe for concurrent use.
type MemFS struct {
	mu    sync.RWMutex
	files map[string]*memFile
	dirs  map[string]bool
	now   time.Time
}

type memFile struct {
	content []byte
	mode    fs.FileMode
	modTime time.Time
}

// NewMemFS creates a new in-memory file system.
func NewMemFS() *MemFS {
	return &MemFS{
		files: make(map[string]*memFile),
		dirs:  map[string]bool{"/": true},
		now:   time.Unix(1_700_000_000, 0),
	}
}

var _ FS = (*MemFS)(nil)

// tick advances and returns the synthetic clock, so successive writes
// get distinct modification times.
func (m *MemFS) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

// ReadFile reads the entire file content.
func (m *MemFS) ReadFile(filePath string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.clean(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: filePath, Err: fs.ErrNotExist}
	}

	content := make([]byte, len(f.content))
	copy(content, f.content)
	return content, nil
}

// WriteFile writes data to a file, creating parent directories
// implicitly (unlike OSFS, since tests build trees ad hoc).
func (m *MemFS) WriteFile(filePath string, data []byte, perm fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.clean(filePath)
	if m.dirs[filePath] {
		return &fs.PathError{Op: "write", Path: filePath, Err: fs.ErrInvalid}
	}

	m.mkdirs(path.Dir(filePath))

	content := make([]byte, len(data))
	copy(content, data)
	m.files[filePath] = &memFile{content: content, mode: perm, modTime: m.tick()}
	return nil
}

// Stat returns file information.
func (m *MemFS) Stat(filePath string) (FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.clean(filePath)

	if f, ok := m.files[filePath]; ok {
		return NewFileInfo(filePath, path.Base(filePath), int64(len(f.content)), f.mode, f.modTime, false), nil
	}
	if m.dirs[filePath] {
		return NewFileInfo(filePath, path.Base(filePath), 0, fs.ModeDir|0755, m.now, true), nil
	}
	return FileInfo{}, &fs.PathError{Op: "stat", Path: filePath, Err: fs.ErrNotExist}
}

// Rename renames (moves) a file.
func (m *MemFS) Rename(oldPath, newPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldPath = m.clean(oldPath)
	newPath = m.clean(newPath)

	f, ok := m.files[oldPath]
	if !ok {
		return &fs.PathError{Op: "rename", Path: oldPath, Err: fs.ErrNotExist}
	}

	m.mkdirs(path.Dir(newPath))
	m.files[newPath] = f
	delete(m.files, oldPath)
	return nil
}

// Remove removes a file.
func (m *MemFS) Remove(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.clean(filePath)
	if _, ok := m.files[filePath]; !ok {
		return &fs.PathError{Op: "remove", Path: filePath, Err: fs.ErrNotExist}
	}
	delete(m.files, filePath)
	return nil
}

// Canonical returns the cleaned absolute path.
func (m *MemFS) Canonical(filePath string) (string, error) {
	return m.clean(filePath), nil
}

// Exists returns true if the path exists.
func (m *MemFS) Exists(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	filePath = m.clean(filePath)
	_, isFile := m.files[filePath]
	return isFile || m.dirs[filePath]
}

// IsDir returns true if the path is a directory.
func (m *MemFS) IsDir(filePath string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[m.clean(filePath)]
}

// Dir returns the directory portion of a path.
func (m *MemFS) Dir(filePath string) string {
	return path.Dir(m.clean(filePath))
}

// Base returns the last element of a path.
func (m *MemFS) Base(filePath string) string {
	return path.Base(filePath)
}

// Ext returns the file extension including the dot.
func (m *MemFS) Ext(filePath string) string {
	return path.Ext(filePath)
}

// AddFile is a convenience method for adding files during test setup.
func (m *MemFS) AddFile(filePath, content string) error {
	return m.WriteFile(filePath, []byte(content), 0644)
}

// Touch bumps a file's modification time without changing its content,
// simulating an external tool rewriting the file.
func (m *MemFS) Touch(filePath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	filePath = m.clean(filePath)
	f, ok := m.files[filePath]
	if !ok {
		return &fs.PathError{Op: "touch", Path: filePath, Err: fs.ErrNotExist}
	}
	f.modTime = m.tick()
	return nil
}

// Files returns all file paths, sorted. Useful in tests.
func (m *MemFS) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	files := make([]string, 0, len(m.files))
	for f := range m.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// mkdirs records every directory on the path. Caller holds the lock.
func (m *MemFS) mkdirs(dirPath string) {
	parts := strings.Split(strings.Trim(dirPath, "/"), "/")
	current := ""
	for _, part := range parts {
		if part == "" {
			continue
		}
		current += "/" + part
		m.dirs[current] = true
	}
}

// clean normalizes a path to an absolute, cleaned form.
func (m *MemFS) clean(p string) string {
	p = path.Clean(p)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
