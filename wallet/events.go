package wallet

import "sync"

// EventKind identifies one of the fixed lifecycle event kinds an adapter
// publishes to its host.
type EventKind string

const (
	// EventNotReady marks an adapter reset back to its initial state. The
	// framework never publishes it; it is vocabulary for hosts that drive
	// resets themselves.
	EventNotReady           EventKind = "not_ready"
	EventReady              EventKind = "ready"
	EventConnecting         EventKind = "connecting"
	EventConnected          EventKind = "connected"
	EventDisconnected       EventKind = "disconnected"
	EventErrored            EventKind = "errored"
	EventAdapterDataUpdated EventKind = "adapter_data_updated"
	EventCacheClear         EventKind = "cache_clear"
)

// Event is a single published notification. AdapterName is set for kinds that
// carry one; Provider and Reconnected only for EventConnected; Data only for
// EventAdapterDataUpdated; Err only for EventErrored.
type Event struct {
	Kind        EventKind
	AdapterName string
	Provider    Provider
	Reconnected bool
	Data        any
	Err         error
}

// Handler consumes a published event. Handlers run synchronously on the
// publisher's goroutine.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is a typed publish/subscribe channel between one adapter (publisher)
// and its host application (subscriber). Publishing fans out synchronously to
// the current subscribers of the event's kind, in subscription order. There
// is no buffering or replay: a subscriber added after an event fires does not
// see it.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[EventKind][]subscription
}

// NewBus returns an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[EventKind][]subscription),
	}
}

// Subscribe registers handler for events of the given kind and returns an
// unsubscribe function. Unsubscribing twice is a no-op.
func (b *Bus) Subscribe(kind EventKind, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		current := b.subs[kind]
		for i, sub := range current {
			if sub.id == id {
				b.subs[kind] = append(current[:i:i], current[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers evt to every subscriber of evt.Kind. The subscriber list
// is snapshotted before delivery, so handlers may subscribe or unsubscribe
// without affecting the in-flight fan-out.
func (b *Bus) Publish(evt Event) {
	b.mu.Lock()
	snapshot := make([]subscription, len(b.subs[evt.Kind]))
	copy(snapshot, b.subs[evt.Kind])
	b.mu.Unlock()

	for _, sub := range snapshot {
		sub.handler(evt)
	}
}
