package dispatcher

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/expense-approval/internal/domain/event"
)

type testLogger struct{}

func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}

func submittedEvent() *event.Event {
	return event.NewEvent(event.TypeReportSubmitted, uuid.New(), uuid.New(), nil)
}

func TestDispatch_RunsHandlersInOrder(t *testing.T) {
	d := NewDispatcher(testLogger{})

	var order []string
	d.Subscribe(event.TypeReportSubmitted, "first", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "first")
		return nil
	})
	d.Subscribe(event.TypeReportSubmitted, "second", func(ctx context.Context, evt *event.Event) error {
		order = append(order, "second")
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), submittedEvent()))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestDispatch_StopsOnFirstError(t *testing.T) {
	d := NewDispatcher(testLogger{})

	handlerErr := errors.New("handler failed")
	secondRan := false
	d.Subscribe(event.TypeReportSubmitted, "failing", func(ctx context.Context, evt *event.Event) error {
		return handlerErr
	})
	d.Subscribe(event.TypeReportSubmitted, "after", func(ctx context.Context, evt *event.Event) error {
		secondRan = true
		return nil
	})

	err := d.Dispatch(context.Background(), submittedEvent())
	assert.ErrorIs(t, err, handlerErr)
	assert.False(t, secondRan)
}

func TestDispatch_RecoversHandlerPanic(t *testing.T) {
	d := NewDispatcher(testLogger{})

	d.Subscribe(event.TypeReportSubmitted, "panicking", func(ctx context.Context, evt *event.Event) error {
		panic("boom")
	})

	err := d.Dispatch(context.Background(), submittedEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handler panic")
}

func TestDispatch_IgnoresUnsubscribedEventTypes(t *testing.T) {
	d := NewDispatcher(testLogger{})

	called := false
	d.Subscribe(event.TypeBatchExported, "exported-only", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	require.NoError(t, d.Dispatch(context.Background(), submittedEvent()))
	assert.False(t, called)
}

func TestDispatchAsync_CloseWaitsForHandlers(t *testing.T) {
	d := NewDispatcher(testLogger{})

	var mu sync.Mutex
	handled := 0
	d.Subscribe(event.TypeReportSubmitted, "counter", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})

	for i := 0; i < 5; i++ {
		d.DispatchAsync(context.Background(), submittedEvent())
	}
	require.NoError(t, d.Close())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, handled)
}

func TestDispatch_ClosedDispatcherRejectsEvents(t *testing.T) {
	d := NewDispatcher(testLogger{})
	require.NoError(t, d.Close())

	assert.Error(t, d.Dispatch(context.Background(), submittedEvent()))
	assert.Error(t, d.Close())
}

func TestAsyncPublisher_DeliversThroughDispatcher(t *testing.T) {
	d := NewDispatcher(testLogger{})

	var mu sync.Mutex
	var got *event.Event
	d.Subscribe(event.TypeDecisionRecorded, "capture", func(ctx context.Context, evt *event.Event) error {
		mu.Lock()
		got = evt
		mu.Unlock()
		return nil
	})

	publisher := NewAsyncPublisher(d)
	evt := event.NewEvent(event.TypeDecisionRecorded, uuid.New(), uuid.New(), map[string]interface{}{"status": "approved"})
	publisher.Publish(context.Background(), evt)
	require.NoError(t, d.Close())

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	assert.Equal(t, evt.ID, got.ID)
	assert.Equal(t, "approved", got.GetPayloadString("status"))
}
