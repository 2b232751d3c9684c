package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/garyjia/expense-approval/internal/domain/event"
)

func TestHandleEvent_LogsKnownTypes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	notifier := NewNotifier(zap.New(core))

	reportID := uuid.New()
	evt := event.NewEvent(event.TypeDecisionRecorded, reportID, uuid.New(), map[string]interface{}{
		"status": "approved",
		"role":   "manager",
	})
	assert.NoError(t, notifier.HandleEvent(context.Background(), evt))

	entries := logs.FilterMessage("Review decision recorded").All()
	assert.Len(t, entries, 1)
	assert.Equal(t, reportID.String(), entries[0].ContextMap()["report_id"])
	assert.Equal(t, "approved", entries[0].ContextMap()["status"])
}

func TestHandleEvent_IgnoresUnknownTypes(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	notifier := NewNotifier(zap.New(core))

	evt := event.NewEvent(event.Type("something.else"), uuid.New(), uuid.New(), nil)
	assert.NoError(t, notifier.HandleEvent(context.Background(), evt))
	assert.Zero(t, logs.Len())
}
