package buffer

// ExternalState classifies what happened to a buffer's file on disk
// since the last open, save, or reload.
type ExternalState int

const (
	// NoChange means the file matches the recorded snapshot.
	NoChange ExternalState = iota

	// Modified means the file exists with a newer modification time.
	Modified

	// Deleted means the file has disappeared since the snapshot.
	Deleted

	// Restored means the file reappeared after being observed deleted.
	Restored
)

// String returns the state name.
func (s ExternalState) String() string {
	switch s {
	case NoChange:
		return "nochange"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Restored:
		return "restored"
	default:
		return "unknown"
	}
}

// CheckExternalState compares the buffer's disk snapshot against the
// current state of the file and records the new observation. It reads
// only metadata, never content; acting on the result (reloading,
// notifying) is the caller's business. Untitled and closed buffers
// always report NoChange.
func (r *Registry) CheckExternalState(b *Buffer) ExternalState {
	if b.closed || !b.IsFileBacked() {
		return NoChange
	}

	info, err := r.fs.Stat(b.path)
	if err != nil {
		if b.existsOnDisk {
			b.existsOnDisk = false
			return Deleted
		}
		return NoChange
	}

	if !b.existsOnDisk {
		b.existsOnDisk = true
		b.diskModTime = info.ModTime()
		return Restored
	}

	if info.ModTime().After(b.diskModTime) {
		b.diskModTime = info.ModTime()
		return Modified
	}
	return NoChange
}
