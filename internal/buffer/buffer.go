// Package buffer provides the open-document model: the Buffer type and
// the Registry that owns every open buffer and indexes the file-backed
// ones by canonical path.
package buffer

import (
	"bytes"
	"time"

	"github.com/quilledit/quill/internal/vfs"
)

// Buffer is one open document: its identity (untitled or file-backed),
// content, persistence metadata, and save-point state.
//
// Buffers are owned exclusively by the Registry. Everything else holds
// non-owning references and must drop them once Closed is published.
type Buffer struct {
	id   uint64
	path string // canonical path, "" for untitled
	name string // display name

	content      []byte
	savedContent []byte // content at open/save/reload time

	// Encoding and LineEnding are detected at open and preserved on save.
	Encoding   vfs.Encoding
	LineEnding vfs.LineEnding

	// Language is the assigned language key, "" when none.
	Language string

	// Disk snapshot taken at open/save/reload, used by
	// CheckExternalState.
	diskModTime  time.Time
	existsOnDisk bool

	closed bool
}

// newUntitled creates an in-memory buffer with an ordinal display name.
func newUntitled(id uint64, name string) *Buffer {
	return &Buffer{
		id:         id,
		name:       name,
		Encoding:   vfs.EncodingUTF8,
		LineEnding: vfs.LineEndingLF,
	}
}

// newFromFile creates a file-backed buffer from content read off disk.
// The content must already have its BOM stripped.
func newFromFile(id uint64, path, name string, content []byte, enc vfs.Encoding, eol vfs.LineEnding, modTime time.Time) *Buffer {
	b := &Buffer{
		id:         id,
		path:       path,
		name:       name,
		Encoding:   enc,
		LineEnding: eol,
	}
	b.setContent(content)
	b.markSaved(modTime)
	return b
}

// ID returns the buffer's registry-unique identifier.
func (b *Buffer) ID() uint64 { return b.id }

// Path returns the canonical file path, or "" for untitled buffers.
func (b *Buffer) Path() string { return b.path }

// Name returns the display name: the file's base name, or the ordinal
// name ("New 1") for untitled buffers.
func (b *Buffer) Name() string { return b.name }

// IsFileBacked reports whether the buffer is associated with a file.
func (b *Buffer) IsFileBacked() bool { return b.path != "" }

// IsClosed reports whether the buffer has been destroyed.
func (b *Buffer) IsClosed() bool { return b.closed }

// Text returns the buffer content.
func (b *Buffer) Text() string { return string(b.content) }

// Len returns the content length in bytes.
func (b *Buffer) Len() int { return len(b.content) }

// LineCount returns the number of lines in the content.
func (b *Buffer) LineCount() int { return vfs.CountLines(b.content) }

// AtSavePoint reports whether the content matches the last persisted
// (or initial) content.
func (b *Buffer) AtSavePoint() bool {
	return bytes.Equal(b.content, b.savedContent)
}

// DiskModTime returns the modification time snapshot taken at the last
// open, save, or reload.
func (b *Buffer) DiskModTime() time.Time { return b.diskModTime }

// setContent replaces the buffer content with a private copy.
func (b *Buffer) setContent(content []byte) {
	b.content = make([]byte, len(content))
	copy(b.content, content)
}

// markSaved records the current content as the save-point and updates
// the disk snapshot.
func (b *Buffer) markSaved(modTime time.Time) {
	b.savedContent = make([]byte, len(b.content))
	copy(b.savedContent, b.content)
	b.diskModTime = modTime
	b.existsOnDisk = true
}

// contentForDisk returns the content prepared for writing: line endings
// normalized to the buffer's convention and BOM re-added when the
// encoding carries one.
func (b *Buffer) contentForDisk() []byte {
	content := make([]byte, len(b.content))
	copy(content, b.content)

	if b.LineEnding != vfs.LineEndingMixed {
		content = vfs.NormalizeLineEndings(content, b.LineEnding)
	}
	return vfs.AddBOM(content, b.Encoding)
}
