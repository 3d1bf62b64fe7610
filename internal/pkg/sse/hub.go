package sse

import (
	"sync"
)

// Event is pushed to every stream open for a tenant.
type Event struct {
	CorporateID string
	Event       string
	Data        interface{}
}

// Hub fans events out to the SSE streams of each tenant.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a stream for a tenant and returns its channel and cleanup function.
func (h *Hub) Subscribe(corporateID string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 16)

	if h.subscribers[corporateID] == nil {
		h.subscribers[corporateID] = make(map[chan Event]struct{})
	}
	h.subscribers[corporateID][ch] = struct{}{}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[corporateID], ch)
			close(ch)
			if len(h.subscribers[corporateID]) == 0 {
				delete(h.subscribers, corporateID)
			}
		})
	}

	return ch, cleanup
}

// Publish sends an event to all streams of a tenant.
func (h *Hub) Publish(corporateID string, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	event.CorporateID = corporateID
	if subs, ok := h.subscribers[corporateID]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// slow consumer, drop
			}
		}
	}
}

// PublishToMany sends an event to several tenants.
func (h *Hub) PublishToMany(corporateIDs []string, event Event) {
	for _, id := range corporateIDs {
		h.Publish(id, event)
	}
}

// SubscriberCount returns the number of open streams for a tenant.
func (h *Hub) SubscriberCount(corporateID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[corporateID])
}

// TotalSubscribers returns the number of open streams across all tenants.
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
