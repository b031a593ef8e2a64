package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(zap.NewNop())
	var got []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.SubjectID)
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		got = append(got, "wrong")
		return nil
	})

	err := d.Publish(context.Background(), New(EventTicketCreated, "t1", "u1", TicketCreatedPayload{Title: "x"}))
	assert.NoError(t, err)
	assert.Equal(t, []string{"first:t1", "second:t1"}, got)
}

func TestDispatcherLogsHandlerFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	called := false
	d.Subscribe(EventRoleRequestCreated, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventRoleRequestCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), New(EventRoleRequestCreated, "r1", "u1", nil)))
	assert.True(t, called)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventTicketAssigned, "t1", "a1", TicketAssignedPayload{AssigneeID: "a1"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventTicketAssigned, e.Type)
}
