package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var got []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		got = append(got, event)
		return nil
	})
	dispatcher.Subscribe(EventMessageAppended, func(_ context.Context, event Event) error {
		t.Fatal("handler for a different type must not fire")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{
		Type:    EventTicketCreated,
		Payload: TicketCreatedPayload{TicketID: "t1"},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, EventTicketCreated, got[0].Type)
}

func TestDispatcherFailingHandlerDoesNotBlockOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var delivered int
	dispatcher.Subscribe(EventTicketAssigned, func(context.Context, Event) error {
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketAssigned, func(context.Context, Event) error {
		delivered++
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketAssigned})
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
}

func TestDispatcherNoSubscribersIsNoop(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()
	assert.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventAssessmentCompleted}))
}
