package tabs

import (
	"github.com/quilledit/quill/internal/buffer"
	"github.com/quilledit/quill/internal/event"
)

// Tab strip event topics.
const (
	// TopicSwitched is published when the current tab changes.
	TopicSwitched event.Topic = "tabs.switched"

	// TopicAllClosed is published when the last tab is removed.
	TopicAllClosed event.Topic = "tabs.allclosed"
)

// Switched is published when the selection moves to another tab.
type Switched struct {
	Buffer *buffer.Buffer
	Index  int
}

// EventTopic implements event.TopicProvider.
func (Switched) EventTopic() event.Topic { return TopicSwitched }

// AllClosed is published when the strip empties. The workbench reacts
// by creating a fresh untitled buffer, so an empty strip is transient.
type AllClosed struct{}

// EventTopic implements event.TopicProvider.
func (AllClosed) EventTopic() event.Topic { return TopicAllClosed }
