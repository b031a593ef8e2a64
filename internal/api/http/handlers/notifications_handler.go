package handlers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/notify"
)

// NotificationsHandler streams admin notifications as server-sent events.
type NotificationsHandler struct {
	hub       *notify.Hub
	heartbeat time.Duration
	done      <-chan struct{}
	logger    *zap.Logger
}

// NewNotificationsHandler returns handler. Streams end when done is closed.
func NewNotificationsHandler(hub *notify.Hub, heartbeat time.Duration, done <-chan struct{}, logger *zap.Logger) *NotificationsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationsHandler{hub: hub, heartbeat: heartbeat, done: done, logger: logger}
}

// Stream handles GET /admin/notifications. The observer is removed as soon as
// a write to the client fails.
func (h *NotificationsHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	id, messages, unsubscribe := h.hub.Subscribe()
	h.logger.Debug("notification observer connected", zap.String("observer_id", id))

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			unsubscribe()
			h.logger.Debug("notification observer disconnected", zap.String("observer_id", id))
		}()

		if err := writeComment(w, "connected "+id); err != nil {
			return
		}

		ticker := time.NewTicker(h.heartbeat)
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				return
			case n, ok := <-messages:
				if !ok {
					return
				}
				if err := writeEvent(w, n); err != nil {
					return
				}
			case <-ticker.C:
				if err := writeComment(w, "ping"); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, n notify.Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", n.ID, n.Type, body); err != nil {
		return err
	}
	return w.Flush()
}

func writeComment(w *bufio.Writer, text string) error {
	if _, err := fmt.Fprintf(w, ": %s\n\n", text); err != nil {
		return err
	}
	return w.Flush()
}
