package event

import (
	"errors"
	"fmt"
	"sync"
)

// Bus errors.
var (
	// ErrNilHandler indicates a subscription was attempted with no handler.
	ErrNilHandler = errors.New("nil handler")

	// ErrInvalidTopic indicates a malformed topic or pattern.
	ErrInvalidTopic = errors.New("invalid topic")

	// ErrInvalidEvent indicates an event whose topic cannot be determined.
	ErrInvalidEvent = errors.New("event has no topic")

	// ErrSubscriptionNotFound indicates an unknown subscription handle.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

// TopicProvider is implemented by events that know their own topic.
// Every event published on the bus must implement it.
type TopicProvider interface {
	EventTopic() Topic
}

// HandlerFunc handles a delivered event.
type HandlerFunc func(event any) error

// Subscription is a handle to an active subscription.
type Subscription struct {
	id      uint64
	pattern Topic
	fn      HandlerFunc
}

// Pattern returns the topic pattern this subscription matches.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// PanicHandler is called when a handler panics during delivery.
type PanicHandler func(event any, recovered any)

// Bus delivers events synchronously to matching subscribers in
// subscription order. Delivery happens on the publisher's goroutine;
// the lifecycle core is single-threaded by construction, so there is
// no async dispatch.
type Bus struct {
	mu      sync.RWMutex
	nextID  uint64
	subs    []*Subscription
	onPanic PanicHandler
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets the handler invoked when a subscriber panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// NewBus creates a new event bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SubscribeFunc registers fn for every event whose topic matches pattern.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	if !pattern.Valid() {
		return nil, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{id: b.nextID, pattern: pattern, fn: fn}
	b.subs = append(b.subs, sub)
	return sub, nil
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers the event to every matching subscriber, in
// subscription order. A handler error aborts delivery and is returned;
// a handler panic is recovered, reported to the panic handler, and
// delivery continues.
func (b *Bus) Publish(event any) error {
	tp, ok := event.(TopicProvider)
	if !ok {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()
	if !t.Valid() {
		return ErrInvalidEvent
	}

	// Snapshot under lock so handlers may subscribe or unsubscribe.
	b.mu.RLock()
	matched := make([]*Subscription, 0, len(b.subs))
	for _, sub := range b.subs {
		if t.Match(sub.pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	for _, sub := range matched {
		if err := b.deliver(sub, event); err != nil {
			return err
		}
	}
	return nil
}

// deliver invokes a single handler with panic recovery.
func (b *Bus) deliver(sub *Subscription, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if b.onPanic != nil {
				b.onPanic(event, r)
			}
			err = nil // panic is contained, not propagated as an error
		}
	}()
	if herr := sub.fn(event); herr != nil {
		return fmt.Errorf("handler for %s: %w", sub.pattern, herr)
	}
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
