package worker

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/notify"
	"github.com/spec-kit/helpdesk/internal/service"
)

func TestWorkerRelaysEventsThroughRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher(logger)
	hub := notify.NewHub(4, logger)
	bridge := notify.NewRedisBridge(client, "helpdesk:worker-test", hub, logger)
	notifications := service.NewNotificationService(dispatcher, bridge, logger)

	stop, err := StartNotificationWorker(context.Background(), notifications, bridge, logger)
	require.NoError(t, err)
	defer stop()

	_, ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	event := events.New(events.EventRoleRequestCreated, "req-1", "user-1", events.RoleRequestCreatedPayload{Email: "u@x.com"})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	select {
	case n := <-ch:
		assert.Equal(t, string(events.EventRoleRequestCreated), n.Type)
		assert.Contains(t, string(n.Payload), "req-1")
	case <-time.After(2 * time.Second):
		t.Fatal("event was not relayed to the hub")
	}
}

func TestWorkerWithoutBridge(t *testing.T) {
	stop, err := StartNotificationWorker(context.Background(), nil, nil, zap.NewNop())
	require.NoError(t, err)
	stop()
}
