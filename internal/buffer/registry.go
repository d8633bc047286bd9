package buffer

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"sync"
	"time"

	"github.com/quilledit/quill/internal/event"
	"github.com/quilledit/quill/internal/vfs"
)

// DefaultMaxFileSize is the largest file the registry opens by default.
const DefaultMaxFileSize = 10 * 1024 * 1024

// Registry owns every open buffer. File-backed buffers are indexed by
// canonical path; the index keys are unique at any instant. Lifecycle
// transitions are published on the event bus.
type Registry struct {
	mu  sync.RWMutex
	fs  vfs.FS
	bus *event.Bus

	buffers map[uint64]*Buffer
	byPath  map[string]*Buffer

	nextID      uint64
	untitledSeq int
	maxFileSize int64
}

// Option configures a Registry.
type Option func(*Registry)

// WithMaxFileSize sets the maximum file size the registry will open.
// Zero means unlimited.
func WithMaxFileSize(size int64) Option {
	return func(r *Registry) {
		r.maxFileSize = size
	}
}

// NewRegistry creates a registry over the given file system, publishing
// lifecycle events on bus.
func NewRegistry(filesystem vfs.FS, bus *event.Bus, opts ...Option) *Registry {
	r := &Registry{
		fs:          filesystem,
		bus:         bus,
		buffers:     make(map[uint64]*Buffer),
		byPath:      make(map[string]*Buffer),
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewEmpty allocates a new untitled buffer with a generated ordinal
// display name. It never fails.
func (r *Registry) NewEmpty() *Buffer {
	r.mu.Lock()
	r.untitledSeq++
	r.nextID++
	b := newUntitled(r.nextID, fmt.Sprintf("New %d", r.untitledSeq))
	r.buffers[b.id] = b
	r.mu.Unlock()

	r.publish(Created{Buffer: b})
	return b
}

// OpenFile opens path as a buffer. If the canonical path is already
// open the existing buffer is returned and no event is published.
func (r *Registry) OpenFile(path string) (*Buffer, error) {
	canonical, err := r.fs.Canonical(path)
	if err != nil {
		return nil, NewPathError("open", path, err)
	}

	r.mu.RLock()
	existing, ok := r.byPath[canonical]
	r.mu.RUnlock()
	if ok {
		return existing, nil
	}

	info, err := r.fs.Stat(canonical)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewPathError("open", canonical, ErrNotFound)
		}
		return nil, NewPathError("open", canonical, fmt.Errorf("%w: %v", ErrReadFailure, err))
	}
	if info.IsDir() {
		return nil, NewPathError("open", canonical, ErrIsDirectory)
	}
	if r.maxFileSize > 0 && info.Size() > r.maxFileSize {
		return nil, NewPathError("open", canonical, ErrTooLarge)
	}

	raw, err := r.fs.ReadFile(canonical)
	if err != nil {
		return nil, NewPathError("open", canonical, fmt.Errorf("%w: %v", ErrReadFailure, err))
	}
	content, enc := vfs.StripBOM(raw)
	switch enc {
	case vfs.EncodingUTF16LE, vfs.EncodingUTF16BE:
		// UTF-16 text is full of NUL bytes; with the BOM present the
		// binary sniff does not apply.
	default:
		if vfs.IsBinary(content) {
			return nil, NewPathError("open", canonical, ErrBinaryFile)
		}
		if enc == vfs.EncodingUTF8 {
			enc = vfs.DetectEncoding(content)
		}
	}
	eol := vfs.DetectLineEnding(content)

	r.mu.Lock()
	// Re-check under the write lock.
	if existing, ok := r.byPath[canonical]; ok {
		r.mu.Unlock()
		return existing, nil
	}
	r.nextID++
	b := newFromFile(r.nextID, canonical, r.fs.Base(canonical), content, enc, eol, info.ModTime())
	r.buffers[b.id] = b
	r.byPath[canonical] = b
	r.mu.Unlock()

	r.publish(Created{Buffer: b})
	return b, nil
}

// SetText replaces the buffer content. DirtyChanged is published when
// the save-point state flips in either direction.
func (r *Registry) SetText(b *Buffer, text string) error {
	if b.closed {
		return ErrClosed
	}

	wasDirty := !b.AtSavePoint()
	b.setContent([]byte(text))
	isDirty := !b.AtSavePoint()

	if wasDirty != isDirty {
		r.publish(DirtyChanged{Buffer: b, Dirty: isDirty})
	}
	return nil
}

// Save writes the buffer to its existing path. Saving a buffer at its
// save-point is a successful no-op. Untitled buffers return ErrNoPath:
// the caller must run the save-as flow to obtain a path first.
func (r *Registry) Save(b *Buffer) error {
	if b.closed {
		return ErrClosed
	}
	if b.AtSavePoint() {
		return nil
	}
	if !b.IsFileBacked() {
		return ErrNoPath
	}

	if err := r.fs.WriteFile(b.path, b.contentForDisk(), 0644); err != nil {
		return NewPathError("save", b.path, fmt.Errorf("%w: %v", ErrWriteFailure, err))
	}

	b.markSaved(r.diskModTime(b.path))
	r.publish(Saved{Buffer: b})
	return nil
}

// SaveAs writes the buffer to newPath and re-associates it with that
// path. If another open buffer held newPath it is displaced from the
// path index and returned; the caller is responsible for resolving the
// collision (normally by closing the displaced buffer).
func (r *Registry) SaveAs(b *Buffer, newPath string) (displaced *Buffer, err error) {
	if b.closed {
		return nil, ErrClosed
	}

	canonical, err := r.fs.Canonical(newPath)
	if err != nil {
		return nil, NewPathError("saveas", newPath, err)
	}
	if canonical == b.path {
		return nil, r.Save(b)
	}

	if err := r.fs.WriteFile(canonical, b.contentForDisk(), 0644); err != nil {
		return nil, NewPathError("saveas", canonical, fmt.Errorf("%w: %v", ErrWriteFailure, err))
	}

	oldPath := b.path

	r.mu.Lock()
	if other, ok := r.byPath[canonical]; ok && other != b {
		displaced = other
	}
	if oldPath != "" && r.byPath[oldPath] == b {
		delete(r.byPath, oldPath)
	}
	r.byPath[canonical] = b
	b.path = canonical
	b.name = r.fs.Base(canonical)
	r.mu.Unlock()

	b.markSaved(r.diskModTime(canonical))

	r.publish(Saved{Buffer: b})
	r.publish(Renamed{Buffer: b, OldPath: oldPath, NewPath: canonical})
	return displaced, nil
}

// Rename moves the buffer to newPath: same re-indexing semantics as
// SaveAs, plus removal of the old file on disk. Only valid for
// file-backed buffers.
func (r *Registry) Rename(b *Buffer, newPath string) (displaced *Buffer, err error) {
	if b.closed {
		return nil, ErrClosed
	}
	if !b.IsFileBacked() {
		return nil, ErrNoPath
	}

	oldPath := b.path
	displaced, err = r.SaveAs(b, newPath)
	if err != nil {
		return nil, err
	}

	// The old file is stale once the content lives at the new path.
	// Failure to remove it leaves an orphan, not an inconsistency.
	if oldPath != "" && oldPath != b.path {
		_ = r.fs.Remove(oldPath)
	}
	return displaced, nil
}

// SaveCopyAs writes the buffer content to path without re-associating
// the buffer. Save-point state is untouched.
func (r *Registry) SaveCopyAs(b *Buffer, path string) error {
	if b.closed {
		return ErrClosed
	}
	canonical, err := r.fs.Canonical(path)
	if err != nil {
		return NewPathError("savecopy", path, err)
	}
	if err := r.fs.WriteFile(canonical, b.contentForDisk(), 0644); err != nil {
		return NewPathError("savecopy", canonical, fmt.Errorf("%w: %v", ErrWriteFailure, err))
	}
	return nil
}

// Reload re-reads the buffer from disk, discarding in-memory edits.
// Only valid for file-backed buffers. Callers enforce any confirmation
// policy; the reload itself is unconditional.
func (r *Registry) Reload(b *Buffer) error {
	if b.closed {
		return ErrClosed
	}
	if !b.IsFileBacked() {
		return ErrNoPath
	}

	raw, err := r.fs.ReadFile(b.path)
	if err != nil {
		return NewPathError("reload", b.path, fmt.Errorf("%w: %v", ErrReadFailure, err))
	}

	content, bomEnc := vfs.StripBOM(raw)
	if bomEnc != vfs.EncodingUTF8 {
		b.Encoding = bomEnc
	}
	b.setContent(content)
	b.markSaved(r.diskModTime(b.path))

	r.publish(Reloaded{Buffer: b})
	return nil
}

// Close removes the buffer from the registry and destroys it. The call
// is unconditional: callers must already have confirmed the discard of
// any unsaved changes. No event is published for this buffer after the
// Closed event.
func (r *Registry) Close(b *Buffer) {
	if b.closed {
		return
	}

	r.mu.Lock()
	delete(r.buffers, b.id)
	// A displaced buffer's path entry already belongs to another
	// buffer; remove the index entry only when it is really ours.
	if b.path != "" && r.byPath[b.path] == b {
		delete(r.byPath, b.path)
	}
	b.closed = true
	r.mu.Unlock()

	r.publish(Closed{Buffer: b, Path: b.path})
}

// Get returns the open buffer for path, if any.
func (r *Registry) Get(path string) (*Buffer, bool) {
	canonical, err := r.fs.Canonical(path)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byPath[canonical]
	return b, ok
}

// All returns every open buffer, ordered by creation.
func (r *Registry) All() []*Buffer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]*Buffer, 0, len(r.buffers))
	for _, b := range r.buffers {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].id < all[j].id })
	return all
}

// Count returns the number of open buffers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.buffers)
}

// DirtyBuffers returns every buffer not at its save-point, ordered by
// creation.
func (r *Registry) DirtyBuffers() []*Buffer {
	var dirty []*Buffer
	for _, b := range r.All() {
		if !b.AtSavePoint() {
			dirty = append(dirty, b)
		}
	}
	return dirty
}

// diskModTime stats path for the post-write snapshot, falling back to
// the current time when the stat fails.
func (r *Registry) diskModTime(path string) time.Time {
	if info, err := r.fs.Stat(path); err == nil {
		return info.ModTime()
	}
	return time.Now()
}

// publish sends an event when a bus is attached.
func (r *Registry) publish(ev any) {
	if r.bus != nil {
		_ = r.bus.Publish(ev)
	}
}
