package notify

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultBuffer = 16

// Hub is the registry of connected observers in this process.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Notification
	buffer      int
	logger      *zap.Logger
}

// NewHub creates an empty registry. Each observer gets a queue of buffer messages.
func NewHub(buffer int, logger *zap.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subscribers: make(map[string]chan Notification),
		buffer:      buffer,
		logger:      logger,
	}
}

// Subscribe registers an observer. The returned function removes it and closes
// the channel; calling it more than once is safe.
func (h *Hub) Subscribe() (string, <-chan Notification, func()) {
	id := uuid.NewString()
	ch := make(chan Notification, h.buffer)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, id)
			h.mu.Unlock()
			close(ch)
		})
	}
	return id, ch, unsubscribe
}

// Broadcast offers n to every observer without blocking. Observers with a full
// queue miss the message. It returns the number of observers reached.
func (h *Hub) Broadcast(n Notification) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for id, ch := range h.subscribers {
		select {
		case ch <- n:
			delivered++
		default:
			h.logger.Debug("dropping notification for slow observer",
				zap.String("observer_id", id),
				zap.String("notification_id", n.ID))
		}
	}
	return delivered
}

// Publish broadcasts locally. It lets the hub stand in for the Redis bridge when
// Redis is not configured.
func (h *Hub) Publish(_ context.Context, n Notification) error {
	h.Broadcast(n)
	return nil
}

// Len returns the number of connected observers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
