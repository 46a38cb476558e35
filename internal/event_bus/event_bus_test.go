package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_Publish(t *testing.T) {
	t.Run("should deliver to handlers in subscription order", func(t *testing.T) {
		bus := NewEventBus()
		var calls []string
		bus.Subscribe("topic", func(e Event) error { calls = append(calls, "first"); return nil })
		bus.Subscribe("topic", func(e Event) error { calls = append(calls, "second"); return nil })
		bus.Subscribe("other", func(e Event) error { calls = append(calls, "other"); return nil })

		err := bus.Publish(NewEvent(context.Background(), "topic", 1))

		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("should keep delivering after a handler fails or panics", func(t *testing.T) {
		bus := NewEventBus()
		delivered := false
		boom := errors.New("boom")
		bus.Subscribe("topic", func(e Event) error { return boom })
		bus.Subscribe("topic", func(e Event) error { panic("kaput") })
		bus.Subscribe("topic", func(e Event) error { delivered = true; return nil })

		err := bus.Publish(NewEvent(context.Background(), "topic", nil))

		assert.True(t, delivered)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "2 handler(s) failed")
		assert.Contains(t, err.Error(), "kaput")
	})

	t.Run("should not deliver on cancelled context", func(t *testing.T) {
		bus := NewEventBus()
		delivered := false
		bus.Subscribe("topic", func(e Event) error { delivered = true; return nil })
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := bus.Publish(NewEvent(ctx, "topic", nil))

		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, delivered)
	})

	t.Run("should stop delivering after unsubscribe", func(t *testing.T) {
		bus := NewEventBus()
		count := 0
		unsubscribe := bus.Subscribe("topic", func(e Event) error { count++; return nil })

		require.NoError(t, bus.Publish(NewEvent(context.Background(), "topic", nil)))
		unsubscribe()
		require.NoError(t, bus.Publish(NewEvent(context.Background(), "topic", nil)))

		assert.Equal(t, 1, count)
	})
}

func TestSubscribeTyped(t *testing.T) {
	t.Run("should pass typed payload and context", func(t *testing.T) {
		bus := NewEventBus()
		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "value")
		var received BadgeAwarded
		var fromCtx any
		SubscribeTyped(bus, BadgeAwardedEvent, func(e EventT[BadgeAwarded]) error {
			received = e.Data
			fromCtx = e.Context().Value(key{})
			return nil
		})

		err := bus.Publish(NewEvent(ctx, BadgeAwardedEvent, BadgeAwarded{UserId: 7, BadgeId: 3, ExperiencePoints: 50}))

		require.NoError(t, err)
		assert.Equal(t, 7, received.UserId)
		assert.Equal(t, 50, received.ExperiencePoints)
		assert.Equal(t, "value", fromCtx)
	})

	t.Run("should skip payloads of other types", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		SubscribeTyped(bus, BadgeAwardedEvent, func(e EventT[BadgeAwarded]) error { called = true; return nil })

		err := bus.Publish(NewEvent(context.Background(), BadgeAwardedEvent, "not a badge"))

		require.NoError(t, err)
		assert.False(t, called)
	})
}
