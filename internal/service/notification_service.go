package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
)

// NotificationService forwards domain events to connected admin observers.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  notify.Publisher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, publisher notify.Publisher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil || n.publisher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventRoleRequestCreated, n.forward)
	n.dispatcher.Subscribe(events.EventRoleRequestDecided, n.forward)
	n.dispatcher.Subscribe(events.EventTicketCreated, n.forward)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	notification, err := notify.NewNotification(string(event.Type), event)
	if err != nil {
		return err
	}
	if err := n.publisher.Publish(ctx, notification); err != nil {
		return err
	}
	n.logger.Debug("admin notification published",
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID))
	return nil
}
