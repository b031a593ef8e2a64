package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/service"
)

// StartNotificationWorker registers notification handlers and, when a Redis
// bridge is given, starts relaying notifications from other replicas. The
// returned function stops the relay.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, bridge *notify.RedisBridge, logger *zap.Logger) (func(), error) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if bridge == nil {
		return func() {}, nil
	}
	if err := bridge.Start(ctx); err != nil {
		return nil, err
	}
	return func() {
		if err := bridge.Close(); err != nil {
			logger.Warn("closing notification bridge", zap.Error(err))
		}
	}, nil
}
