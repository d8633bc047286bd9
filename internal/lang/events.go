package lang

import "github.com/quilledit/quill/internal/event"

// TopicReloaded is published after the definitions directory is
// re-read and the registry swapped.
const TopicReloaded event.Topic = "lang.reloaded"

// Reloaded is published after a hot reload of the language registry.
type Reloaded struct {
	Count int
}

// EventTopic implements event.TopicProvider.
func (Reloaded) EventTopic() event.Topic { return TopicReloaded }
