package feed

import (
	"context"
	"sync"

	"campus-canteen/telemetry"
)

// Hub broadcasts events to every open subscription. Sends never block: a
// subscriber whose buffer is full misses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: map[int]chan Event{}}
}

// Subscription is a handle on the hub. C is closed by Close or by the hub
// shutting down.
type Subscription struct {
	C    <-chan Event
	id   int
	hub  *Hub
	once sync.Once
}

func (h *Hub) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return &Subscription{C: ch, hub: h, id: -1}
	}
	h.nextID++
	h.subs[h.nextID] = ch
	return &Subscription{C: ch, id: h.nextID, hub: h}
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		defer s.hub.mu.Unlock()
		if ch, ok := s.hub.subs[s.id]; ok {
			delete(s.hub.subs, s.id)
			close(ch)
		}
	})
}

func (h *Hub) Publish(_ context.Context, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	telemetry.FeedEvents.WithLabelValues(string(ev.Type)).Inc()
	for _, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			telemetry.FeedDropped.Inc()
		}
	}
}

// Subscribers reports how many subscriptions are open.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later publishes are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
}
