package sse

import (
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 16

// Event is one server-sent event addressed to a user.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Subscription is a live stream for one connection.
type Subscription struct {
	ID     string
	UserID string
	Events <-chan Event
}

// Hub fans events out to every open connection of a user.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan Event
}

func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[string]chan Event),
	}
}

// Subscribe registers a connection and returns it with its cleanup function.
// Cleanup is idempotent.
func (h *Hub) Subscribe(userID string) (Subscription, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, subscriberBuffer)

	if h.subscribers[userID] == nil {
		h.subscribers[userID] = make(map[string]chan Event)
	}
	h.subscribers[userID][id] = ch

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subscribers[userID], id)
			close(ch)
			if len(h.subscribers[userID]) == 0 {
				delete(h.subscribers, userID)
			}
		})
	}

	return Subscription{ID: id, UserID: userID, Events: ch}, cleanup
}

// Publish delivers event to every connection of userID and returns how many
// received it. Full buffers are skipped.
func (h *Hub) Publish(userID string, event Event) int {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, ch := range h.subscribers[userID] {
		select {
		case ch <- event:
			delivered++
		default:
		}
	}
	return delivered
}

// SubscriberCount returns the number of active connections for a user
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[userID])
}

// TotalSubscribers returns the number of active connections across all users
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.subscribers {
		total += len(subs)
	}
	return total
}
