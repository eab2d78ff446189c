// Package events is the in-process broadcast channel between components. Delivery is
// synchronous in the publisher's goroutine, at most once per listener, without replay.
package events

import (
	"sync"

	"github.com/go-pkgz/lgr"
)

// Event is a named notification with an optional payload
type Event struct {
	Name    string `json:"name"`
	Payload any    `json:"payload,omitempty"`
}

// Handler receives published events
type Handler func(Event)

// Publisher is the sending side, used by components that only broadcast
type Publisher interface {
	Publish(e Event)
}

type subscription struct {
	id      int
	name    string // empty for all events
	handler Handler
}

// Bus delivers events to subscribers
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

// NewBus makes an empty bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers h for events with the given name, the returned func removes it
func (b *Bus) Subscribe(name string, h Handler) (unsubscribe func()) {
	return b.add(name, h)
}

// SubscribeAll registers h for every event
func (b *Bus) SubscribeAll(h Handler) (unsubscribe func()) {
	return b.add("", h)
}

func (b *Bus) add(name string, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, handler: h})

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish calls every matching handler in subscription order. A panicking handler is logged
// and does not stop delivery to the others.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	targets := make([]Handler, 0, len(b.subs))
	for _, s := range b.subs {
		if s.name == "" || s.name == e.Name {
			targets = append(targets, s.handler)
		}
	}
	b.mu.RUnlock()

	for _, h := range targets {
		deliver(h, e)
	}
}

func deliver(h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			lgr.Printf("[ERROR] event handler for %s panicked: %v", e.Name, r)
		}
	}()
	h(e)
}

// Nop is a publisher dropping every event
type Nop struct{}

// Publish does nothing
func (Nop) Publish(Event) {}
