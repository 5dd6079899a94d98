package notification

import (
	"sync"

	"github.com/google/uuid"
)

// Hub tracks live stream subscribers per user. Sends never block: a
// subscriber that cannot keep up misses the event and catches up from
// the notifications table.
type Hub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan Notification]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uuid.UUID]map[chan Notification]struct{})}
}

// Register opens a stream for the user. The returned func must be
// called when the client disconnects.
func (h *Hub) Register(userID uuid.UUID) (<-chan Notification, func()) {
	ch := make(chan Notification, 16)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan Notification]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	unregister := func() {
		h.mu.Lock()
		if set, ok := h.subs[userID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, userID)
			}
		}
		h.mu.Unlock()
	}

	return ch, unregister
}

func (h *Hub) Publish(n Notification) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs[n.UserID] {
		select {
		case ch <- n:
		default:
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, set := range h.subs {
		total += len(set)
	}
	return total
}
