package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	BaseEvent
	Value string
}

func (e testEvent) EventName() string { return "test.event" }

func TestPublishSyncDispatchesToAllHandlers(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var got []string
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.event", HandlerFunc(func(_ context.Context, ev Event) error {
			got = append(got, ev.(testEvent).Value)
			return nil
		}))
	}

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent(), Value: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{"hello", "hello", "hello"}, got)
}

func TestPublishSyncReturnsFirstHandlerError(t *testing.T) {
	bus := NewInMemoryBus(nil)
	first := errors.New("first failure")

	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error { return first }))
	bus.Subscribe("test.event", HandlerFunc(func(context.Context, Event) error { return errors.New("second failure") }))

	err := bus.PublishSync(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
	assert.Equal(t, first, err)
}

func TestPublishIgnoresUnsubscribedEvents(t *testing.T) {
	bus := NewInMemoryBus(nil)
	bus.Subscribe("other.event", HandlerFunc(func(context.Context, Event) error {
		t.Error("handler for other event must not run")
		return nil
	}))

	bus.Publish(context.Background(), testEvent{BaseEvent: NewBaseEvent()})
}

// Publish detaches handlers from the request context so in-flight work
// survives the originating request being cancelled.
func TestPublishSurvivesCallerCancellation(t *testing.T) {
	bus := NewInMemoryBus(nil)

	var wg sync.WaitGroup
	wg.Add(1)
	bus.Subscribe("test.event", HandlerFunc(func(ctx context.Context, _ Event) error {
		defer wg.Done()
		assert.NoError(t, ctx.Err())
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{BaseEvent: NewBaseEvent()})

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not run")
	}
}
