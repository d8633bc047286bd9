// Package tabs maintains the ordered tab strip over open buffers: the
// visible sequence and the current selection. It holds non-owning
// buffer references; the registry owns buffer lifetime.
package tabs

import (
	"github.com/quilledit/quill/internal/buffer"
	"github.com/quilledit/quill/internal/event"
)

// Controller is the ordered sequence of open tabs plus the current
// selection. The current index is valid whenever the sequence is
// non-empty; it is -1 only while the strip is empty.
type Controller struct {
	bus     *event.Bus
	order   []*buffer.Buffer
	current int
}

// NewController creates an empty tab controller publishing on bus.
func NewController(bus *event.Bus) *Controller {
	return &Controller{bus: bus, current: -1}
}

// Add appends b as the last tab. The first tab added becomes current;
// later additions do not steal the selection.
func (c *Controller) Add(b *buffer.Buffer) {
	if b == nil || c.IndexOf(b) >= 0 {
		return
	}

	c.order = append(c.order, b)
	if c.current < 0 {
		c.setCurrent(0)
	}
}

// Remove drops b from the strip. When the current tab is removed the
// selection moves to the nearest remaining neighbor: the tab that slid
// into the same slot, or the new last tab when the removed one was
// last. Removing the final tab empties the strip and publishes
// AllClosed.
func (c *Controller) Remove(b *buffer.Buffer) {
	idx := c.IndexOf(b)
	if idx < 0 {
		return
	}

	c.order = append(c.order[:idx], c.order[idx+1:]...)

	if len(c.order) == 0 {
		c.current = -1
		c.publish(AllClosed{})
		return
	}

	switch {
	case idx < c.current:
		// Everything after the removal shifts left; same buffer stays
		// current.
		c.current--
	case idx == c.current:
		next := idx
		if next >= len(c.order) {
			next = len(c.order) - 1
		}
		c.current = -1 // force the switch event
		c.setCurrent(next)
	}
}

// SwitchTo selects the tab at index i. Out-of-range indices are a
// silent no-op.
func (c *Controller) SwitchTo(i int) {
	if i < 0 || i >= len(c.order) {
		return
	}
	c.setCurrent(i)
}

// SwitchToBuffer selects the tab showing b. Unknown buffers are a
// silent no-op.
func (c *Controller) SwitchToBuffer(b *buffer.Buffer) {
	c.SwitchTo(c.IndexOf(b))
}

// Reorder moves the tab at index from to index to, shifting the tabs
// between them. The selection follows the logical buffer, not the
// slot. Out-of-range indices are a silent no-op.
func (c *Controller) Reorder(from, to int) {
	if from < 0 || from >= len(c.order) || to < 0 || to >= len(c.order) || from == to {
		return
	}

	selected := c.Current()

	moved := c.order[from]
	c.order = append(c.order[:from], c.order[from+1:]...)

	rest := make([]*buffer.Buffer, 0, len(c.order)+1)
	rest = append(rest, c.order[:to]...)
	rest = append(rest, moved)
	rest = append(rest, c.order[to:]...)
	c.order = rest

	c.current = c.IndexOf(selected)
}

// At returns the buffer at index i, or nil when out of range.
func (c *Controller) At(i int) *buffer.Buffer {
	if i < 0 || i >= len(c.order) {
		return nil
	}
	return c.order[i]
}

// Current returns the selected buffer, or nil when the strip is empty.
func (c *Controller) Current() *buffer.Buffer {
	return c.At(c.current)
}

// CurrentIndex returns the index of the selected tab, -1 when empty.
func (c *Controller) CurrentIndex() int {
	return c.current
}

// IndexOf returns b's tab index, or -1 when b is not in the strip.
func (c *Controller) IndexOf(b *buffer.Buffer) int {
	for i, got := range c.order {
		if got == b {
			return i
		}
	}
	return -1
}

// Count returns the number of tabs.
func (c *Controller) Count() int {
	return len(c.order)
}

// Buffers returns the tabs in display order.
func (c *Controller) Buffers() []*buffer.Buffer {
	out := make([]*buffer.Buffer, len(c.order))
	copy(out, c.order)
	return out
}

// setCurrent moves the selection and publishes Switched on change.
func (c *Controller) setCurrent(i int) {
	if i == c.current {
		return
	}
	c.current = i
	c.publish(Switched{Buffer: c.order[i], Index: i})
}

func (c *Controller) publish(ev any) {
	if c.bus != nil {
		_ = c.bus.Publish(ev)
	}
}
