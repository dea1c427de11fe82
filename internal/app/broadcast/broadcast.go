// Package broadcast provides the fan-out hub for session messages.
package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gauravsharma2003/Wavify-ios-sub001/internal/app/session/protocol"
)

// Stream represents a message stream for a subscriber.
type Stream interface {
	Send(*protocol.Envelope) error
}

// subscription represents a subscriber's subscription.
type subscription struct {
	id     string
	stream Stream
}

// Hub manages subscriptions and broadcasting of session envelopes.
type Hub struct {
	mu            sync.RWMutex
	subscriptions map[string]*subscription
}

// NewHub creates a new broadcast hub.
func NewHub() *Hub {
	return &Hub{
		subscriptions: make(map[string]*subscription),
	}
}

// Subscribe adds a new subscription and returns the subscription ID.
func (h *Hub) Subscribe(stream Stream) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.New().String()
	h.subscriptions[id] = &subscription{
		id:     id,
		stream: stream,
	}
	return id
}

// Unsubscribe removes a subscription.
func (h *Hub) Unsubscribe(subscriptionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subscriptions, subscriptionID)
}

// Broadcast sends an envelope to all subscribers.
// Each stream send is done in a goroutine with a timeout to prevent a
// slow subscriber from blocking the rest.
func (h *Hub) Broadcast(env *protocol.Envelope) {
	h.mu.RLock()
	subs := make([]*subscription, 0, len(h.subscriptions))
	for _, sub := range h.subscriptions {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	var wg sync.WaitGroup
	for _, sub := range subs {
		wg.Add(1)
		go func(s *subscription) {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
			defer cancel()

			done := make(chan error, 1)
			go func() {
				done <- s.stream.Send(env)
			}()

			select {
			case <-done:
				// Send errors are ignored here; a dead stream is
				// unsubscribed by the transport on its next failure.
			case <-ctx.Done():
			}
		}(sub)
	}
	wg.Wait()
}

// Send sends an envelope to a specific subscriber.
func (h *Hub) Send(subscriptionID string, env *protocol.Envelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sub, ok := h.subscriptions[subscriptionID]
	if !ok {
		return nil
	}

	return sub.stream.Send(env)
}

// SubscriberCount returns the number of active subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions)
}

// Close removes all subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscriptions = make(map[string]*subscription)
}
