package dispatcher

import (
	"context"

	"github.com/garyjia/expense-approval/internal/domain/event"
)

// AsyncPublisher adapts the dispatcher to the fire-and-forget publication
// interface the application services accept. Handler failures never affect
// the publishing request.
type AsyncPublisher struct {
	dispatcher Dispatcher
}

// NewAsyncPublisher creates a new async publisher over d
func NewAsyncPublisher(d Dispatcher) *AsyncPublisher {
	return &AsyncPublisher{dispatcher: d}
}

// Publish dispatches the event asynchronously
func (p *AsyncPublisher) Publish(ctx context.Context, evt *event.Event) {
	p.dispatcher.DispatchAsync(ctx, evt)
}
