// Package event provides a topic-based synchronous event bus.
//
// All lifecycle components publish typed events carrying a hierarchical
// dot-notation topic ("buffer.created", "tabs.switched"). Subscribers
// register against a topic pattern that may contain wildcards.
package event

import "strings"

// Topic is a hierarchical event type using dot notation.
// Examples: "buffer.created", "tabs.switched", "lang.reloaded".
type Topic string

// Wildcard constants for pattern matching.
const (
	// WildcardSingle matches exactly one segment.
	WildcardSingle = "*"

	// WildcardMulti matches zero or more trailing segments.
	WildcardMulti = "**"

	// Separator separates topic segments.
	Separator = "."
)

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Base returns the last segment of the topic.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// Parent returns the topic with the last segment removed, or "" at the root.
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Match reports whether the concrete topic t matches the given pattern.
// A "*" segment matches any single segment; a trailing "**" matches any
// remainder, including the empty remainder.
func (t Topic) Match(pattern Topic) bool {
	if t == pattern {
		return true
	}

	ts := t.Segments()
	ps := pattern.Segments()

	for i, p := range ps {
		if p == WildcardMulti {
			// Only meaningful as the final pattern segment.
			return i == len(ps)-1
		}
		if i >= len(ts) {
			return false
		}
		if p != WildcardSingle && p != ts[i] {
			return false
		}
	}

	return len(ts) == len(ps)
}

// Valid reports whether the topic is well formed: non-empty with no
// empty segments.
func (t Topic) Valid() bool {
	if t == "" {
		return false
	}
	for _, seg := range t.Segments() {
		if seg == "" {
			return false
		}
	}
	return true
}
