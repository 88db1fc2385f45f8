package eventbus

import (
	"sync"
)

// Topic names used across the application. The bus itself is topic-agnostic;
// these constants exist so publishers and subscribers agree on spelling.
const (
	// TopicNewChatMessage signals that a user's unread state changed (the name
	// is historical: it fires on mark-as-read, not only on new messages).
	TopicNewChatMessage = "newChatMessage"
	// TopicNewNotification carries cross-cutting notifications destined for
	// the admin namespace.
	TopicNewNotification = "new:notification"
)

// Handler receives a published payload. Handlers run synchronously on the
// publishing goroutine and must not block for long.
type Handler func(payload any)

// Bus is an in-process publish/subscribe registry keyed by named topics.
// Components receive a Bus at construction instead of reaching for a shared
// singleton, so subscriber wiring is explicit and testable.
type Bus interface {
	// Subscribe registers h for topic and returns a function that removes the
	// subscription. Subscribers for a topic are invoked in registration order.
	Subscribe(topic string, h Handler) (unsubscribe func())

	// Publish delivers payload synchronously to every current subscriber of
	// topic. Publishing to a topic with no subscribers is a silent no-op.
	Publish(topic string, payload any)
}

type subscription struct {
	id      uint64
	handler Handler
}

// InMemoryBus is the single-process Bus implementation. Safe for concurrent use.
type InMemoryBus struct {
	mu     sync.RWMutex
	nextID uint64
	topics map[string][]subscription
}

func NewInMemoryBus() *InMemoryBus {
	return &InMemoryBus{topics: make(map[string][]subscription)}
}

var _ Bus = (*InMemoryBus)(nil)

func (b *InMemoryBus) Subscribe(topic string, h Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.topics[topic] = append(b.topics[topic], subscription{id: id, handler: h})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		subs := b.topics[topic]
		for i, s := range subs {
			if s.id == id {
				b.topics[topic] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
		if len(b.topics[topic]) == 0 {
			delete(b.topics, topic)
		}
		b.mu.Unlock()
	}
}

func (b *InMemoryBus) Publish(topic string, payload any) {
	b.mu.RLock()
	subs := b.topics[topic]
	// Copy so a handler subscribing/unsubscribing mid-delivery cannot mutate
	// the slice we are ranging over.
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.handler(payload)
	}
}
