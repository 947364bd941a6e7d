package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvokesSubscribersInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string

	d.Subscribe(EventProductCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "first")
		return nil
	})
	d.Subscribe(EventProductCreated, func(_ context.Context, e Event) error {
		seen = append(seen, "second")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventProductCreated, ProductID: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestPublishContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()
	boom := errors.New("boom")
	called := false

	d.Subscribe(EventProductCreated, func(context.Context, Event) error { return boom })
	d.Subscribe(EventProductCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventProductCreated})
	assert.ErrorIs(t, err, boom)
	assert.True(t, called)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: "unknown"}))
}
