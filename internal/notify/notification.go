// Package notify fans admin notifications out to every connected observer.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Notification is a single message delivered to admin observers.
type Notification struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewNotification encodes payload and stamps the message.
func NewNotification(notificationType string, payload any) (Notification, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Notification{}, err
	}
	return Notification{
		ID:        uuid.NewString(),
		Type:      notificationType,
		Payload:   raw,
		Timestamp: time.Now().UTC(),
	}, nil
}

// Publisher delivers a notification on a best-effort basis.
type Publisher interface {
	Publish(ctx context.Context, n Notification) error
}
