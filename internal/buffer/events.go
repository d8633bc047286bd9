package buffer

import "github.com/quilledit/quill/internal/event"

// Lifecycle event topics. For any single buffer, Created precedes every
// other event and nothing is published after Closed.
const (
	// TopicCreated is published when a buffer enters the registry.
	TopicCreated event.Topic = "buffer.created"

	// TopicClosed is published after a buffer is removed and destroyed.
	TopicClosed event.Topic = "buffer.closed"

	// TopicSaved is published after a successful save or save-as.
	TopicSaved event.Topic = "buffer.saved"

	// TopicRenamed is published when a buffer's path association changes.
	TopicRenamed event.Topic = "buffer.renamed"

	// TopicReloaded is published after content is re-read from disk.
	TopicReloaded event.Topic = "buffer.reloaded"

	// TopicDirtyChanged is published when save-point state flips.
	TopicDirtyChanged event.Topic = "buffer.dirty.changed"
)

// Created is published when a buffer enters the registry.
type Created struct {
	Buffer *Buffer
}

// EventTopic implements event.TopicProvider.
func (Created) EventTopic() event.Topic { return TopicCreated }

// Closed is published after a buffer is removed from the registry.
// The buffer reference is still readable but must not be retained.
type Closed struct {
	Buffer *Buffer
	Path   string
}

// EventTopic implements event.TopicProvider.
func (Closed) EventTopic() event.Topic { return TopicClosed }

// Saved is published after a successful save.
type Saved struct {
	Buffer *Buffer
}

// EventTopic implements event.TopicProvider.
func (Saved) EventTopic() event.Topic { return TopicSaved }

// Renamed is published when a buffer's path association changes
// through SaveAs or Rename.
type Renamed struct {
	Buffer  *Buffer
	OldPath string
	NewPath string
}

// EventTopic implements event.TopicProvider.
func (Renamed) EventTopic() event.Topic { return TopicRenamed }

// Reloaded is published after a buffer's content is replaced from disk.
type Reloaded struct {
	Buffer *Buffer
}

// EventTopic implements event.TopicProvider.
func (Reloaded) EventTopic() event.Topic { return TopicReloaded }

// DirtyChanged is published when a buffer crosses its save-point in
// either direction.
type DirtyChanged struct {
	Buffer *Buffer
	Dirty  bool
}

// EventTopic implements event.TopicProvider.
func (DirtyChanged) EventTopic() event.Topic { return TopicDirtyChanged }
