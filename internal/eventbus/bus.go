// Package eventbus is an in-process registry of typed observers. Publishing is synchronous:
// every handler subscribed to the event's topic runs, in subscription order, before Publish
// returns.
package eventbus

import (
	"log"
	"slices"
	"sync"
)

// Topic identifies a kind of event.
type Topic string

// Event is anything that can be published.
type Event interface {
	Topic() Topic
}

// Handler receives published events.
type Handler func(Event)

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus maps topics to ordered subscriber lists.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[Topic][]subscriber
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{topics: make(map[Topic][]subscriber)}
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	bus   *Bus
	topic Topic
	id    uint64
	once  sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.bus.remove(s.topic, s.id)
	})
}

// Subscribe registers handler for topic.
func (b *Bus) Subscribe(topic Topic, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscriber{id: id, handler: handler})
	return &Subscription{bus: b, topic: topic, id: id}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.topics[topic]
	idx := slices.IndexFunc(subs, func(s subscriber) bool { return s.id == id })
	if idx < 0 {
		return
	}
	// Copy so a Publish iterating the old slice is unaffected.
	b.topics[topic] = slices.Delete(slices.Clone(subs), idx, idx+1)
	if len(b.topics[topic]) == 0 {
		delete(b.topics, topic)
	}
}

// Publish delivers event to the handlers that were subscribed to its topic when Publish was
// called.
func (b *Bus) Publish(event Event) {
	if event == nil {
		return
	}
	b.mu.RLock()
	subs := b.topics[event.Topic()]
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Subscribers returns how many handlers are registered for topic.
func (b *Bus) Subscribers(topic Topic) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.topics[topic])
}

// On subscribes a handler typed on the concrete event. The topic is taken from E's zero value,
// so E must report its topic without reading fields.
func On[E Event](b *Bus, handler func(E)) *Subscription {
	var zero E
	topic := zero.Topic()
	return b.Subscribe(topic, func(ev Event) {
		typed, ok := ev.(E)
		if !ok {
			log.Printf("[eventbus] %s: unexpected event type %T", topic, ev)
			return
		}
		handler(typed)
	})
}
