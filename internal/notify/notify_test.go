package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHubBroadcastReachesAllObservers(t *testing.T) {
	hub := NewHub(4, zap.NewNop())
	_, first, unsubFirst := hub.Subscribe()
	_, second, unsubSecond := hub.Subscribe()
	defer unsubFirst()
	defer unsubSecond()

	n, err := NewNotification("role_request_created", map[string]string{"userId": "u1"})
	require.NoError(t, err)

	assert.Equal(t, 2, hub.Broadcast(n))
	assert.Equal(t, n.ID, (<-first).ID)
	assert.Equal(t, n.ID, (<-second).ID)
}

func TestHubUnsubscribeRemovesObserver(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	_, ch, unsubscribe := hub.Subscribe()
	assert.Equal(t, 1, hub.Len())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Len())

	_, open := <-ch
	assert.False(t, open)

	n, err := NewNotification("x", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, hub.Broadcast(n))
}

func TestHubDropsForFullQueue(t *testing.T) {
	hub := NewHub(1, zap.NewNop())
	_, ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	n, err := NewNotification("x", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Broadcast(n))

	done := make(chan int)
	go func() { done <- hub.Broadcast(n) }()
	select {
	case delivered := <-done:
		assert.Equal(t, 0, delivered)
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a full observer")
	}
	assert.Len(t, ch, 1)
}

func TestRedisBridgeRelaysIntoHub(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	hub := NewHub(4, zap.NewNop())
	_, ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	bridge := NewRedisBridge(client, "helpdesk:test", hub, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, bridge.Start(ctx))
	defer bridge.Close()

	n, err := NewNotification("role_request_created", map[string]string{"email": "u@example.com"})
	require.NoError(t, err)
	require.NoError(t, bridge.Publish(ctx, n))

	select {
	case got := <-ch:
		assert.Equal(t, n.ID, got.ID)
		assert.Equal(t, "role_request_created", got.Type)
		assert.JSONEq(t, `{"email":"u@example.com"}`, string(got.Payload))
	case <-time.After(2 * time.Second):
		t.Fatal("notification not relayed")
	}
}

func TestRedisBridgeStartTwice(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bridge := NewRedisBridge(client, "helpdesk:test", NewHub(1, nil), nil)
	ctx := context.Background()
	require.NoError(t, bridge.Start(ctx))
	defer bridge.Close()
	assert.Error(t, bridge.Start(ctx))
}
