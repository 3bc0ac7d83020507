package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/commerce-core/internal/events"
)

// publish emits a maintenance event, tolerating a nil dispatcher so jobs can
// run without one in tests.
func publish(ctx context.Context, dispatcher events.Dispatcher, eventType events.EventType, job string, at time.Time, payload any) {
	if dispatcher == nil {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Job:       job,
		Timestamp: at,
		Payload:   payload,
	})
}
