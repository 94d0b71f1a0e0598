package event_bus

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EventType identifies the kind of signal travelling over the bus.
type EventType string

const (
	// ViewportChanged is published when the visible calendar range moves.
	ViewportChanged EventType = "viewport.changed"
	// EventCreated, EventUpdated and EventDeleted are published after the
	// corresponding mutation was confirmed by the store and the detail
	// cache was invalidated.
	EventCreated EventType = "event.created"
	EventUpdated EventType = "event.updated"
	EventDeleted EventType = "event.deleted"
	// MoveSucceeded and MoveFailed are the reschedule outcome signals.
	MoveSucceeded EventType = "event.move.succeeded"
	MoveFailed    EventType = "event.move.failed"
	// FetchFailed is published when a range fetch could not be served.
	FetchFailed EventType = "fetch.failed"
)

// Event is the envelope travelling over the bus.
type Event struct {
	ctx       context.Context
	Type      EventType
	Timestamp time.Time
	Data      any
}

// NewEvent creates an Event carrying the given payload. The timestamp is set
// to the current time.
func NewEvent(ctx context.Context, eventType EventType, data any) Event {
	return Event{ctx: ctx, Type: eventType, Timestamp: time.Now(), Data: data}
}

// Context returns the context the event was published with. Handlers should
// use it for store calls so cancellation propagates.
func (e Event) Context() context.Context {
	if e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

type subscriber struct {
	id uint64
	fn func(Event)
}

// Bus is a synchronous in-process dispatcher. Handlers run sequentially, in
// subscription order, on the publishing goroutine; Publish returns only after
// every handler returned. This is what gives mutations their
// invalidate-before-refresh ordering guarantee.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[EventType][]subscriber
	nextID      uint64
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[EventType][]subscriber)}
}

// Subscribe registers fn for the given event type and returns an unsubscribe
// function.
func (b *Bus) Subscribe(eventType EventType, fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subscribers[eventType] = append(b.subscribers[eventType], subscriber{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subscribers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.subscribers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.subscribers[eventType]) == 0 {
			delete(b.subscribers, eventType)
		}
	}
}

// Publish delivers the event to all handlers registered for its type. A
// panicking handler is recovered and logged; remaining handlers still run.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscriber, len(b.subscribers[e.Type]))
	copy(subs, b.subscribers[e.Type])
	b.mu.RUnlock()

	for _, s := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("event bus: handler %d panicked for %s: %v", s.id, e.Type, r)
				}
			}()
			s.fn(e)
		}()
	}
}
