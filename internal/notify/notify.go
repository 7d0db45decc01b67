// Package notify provides change notification for indentation preferences.
//
// The notify package implements an observer pattern that lets components
// subscribe to preference changes and receive callbacks when a language's
// preference is set, reset, or when the whole store is reloaded. Delivery is
// synchronous: Notify returns only after every observer has run, so a caller
// that updates the store and then applies the change never interleaves with
// another update.
package notify

import (
	"slices"
	"sync"
)

// ChangeType represents the type of preference change.
type ChangeType int

const (
	// ChangeSet indicates a preference was set or updated.
	ChangeSet ChangeType = iota

	// ChangeReset indicates a preference was restored to the default.
	ChangeReset

	// ChangeReload indicates the entire store was (re)loaded.
	ChangeReload
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeReset:
		return "reset"
	case ChangeReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change represents a preference change event.
type Change struct {
	// Key is the language id whose preference changed.
	// Empty for reload events.
	Key string

	// Type is the type of change.
	Type ChangeType

	// OldValue is the previous value (may be nil).
	OldValue any

	// NewValue is the new value.
	NewValue any

	// Source identifies where the change came from.
	Source string
}

// Observer is called when a change occurs.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type entry struct {
	id uint64
	// key is empty for observers of all changes.
	key      string
	observer Observer
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// Observers in subscription order.
	observers []entry

	nextID uint64
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribeKey("", observer)
}

// SubscribeKey registers an observer for changes to a single language id.
// Reload events are delivered to key observers as well. An empty key
// subscribes to all changes.
func (n *Notifier) SubscribeKey(key string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers = append(n.observers, entry{id: id, key: key, observer: observer})

	return &Subscription{id: id, notifier: n}
}

// Notify sends a change notification to all relevant observers, in the
// order they subscribed.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	var observers []Observer
	for _, e := range n.observers {
		if e.key == "" || change.Key == "" || e.key == change.Key {
			observers = append(observers, e.observer)
		}
	}
	n.mu.RUnlock()

	// Call observers outside the lock so they may read the store.
	for _, obs := range observers {
		obs(change)
	}
}

// NotifySet is a convenience method for set changes.
func (n *Notifier) NotifySet(key string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Key:      key,
		Type:     ChangeSet,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReset is a convenience method for reset changes.
func (n *Notifier) NotifyReset(key string, oldValue, newValue any, source string) {
	n.Notify(Change{
		Key:      key,
		Type:     ChangeReset,
		OldValue: oldValue,
		NewValue: newValue,
		Source:   source,
	})
}

// NotifyReload is a convenience method for reload events.
func (n *Notifier) NotifyReload(source string) {
	n.Notify(Change{
		Type:   ChangeReload,
		Source: source,
	})
}

// unsubscribe removes an observer by ID.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.observers = slices.DeleteFunc(n.observers, func(e entry) bool {
		return e.id == id
	})
}
