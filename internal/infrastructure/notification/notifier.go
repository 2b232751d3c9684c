// Package notification surfaces workflow events to the people who act on
// them next. Delivery is currently a structured log line; a chat or email
// integration can attach behind the same handler.
package notification

import (
	"context"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/domain/event"
)

// Notifier turns workflow events into reviewer-facing notifications.
type Notifier struct {
	logger *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(logger *zap.Logger) *Notifier {
	return &Notifier{logger: logger}
}

// HandleEvent routes one workflow event to its notification. Unknown event
// types are ignored so new events do not break delivery.
func (n *Notifier) HandleEvent(ctx context.Context, evt *event.Event) error {
	switch evt.Type {
	case event.TypeReportSubmitted:
		n.logger.Info("Report awaiting manager review",
			zap.String("report_id", evt.SubjectID.String()),
			zap.String("employee_id", evt.ActorID.String()))
	case event.TypeDecisionRecorded:
		n.logger.Info("Review decision recorded",
			zap.String("report_id", evt.SubjectID.String()),
			zap.String("approver_id", evt.ActorID.String()),
			zap.String("status", evt.GetPayloadString("status")),
			zap.String("approver_role", evt.GetPayloadString("role")))
	case event.TypeBatchExported:
		n.logger.Info("Finalization batch posted to accounting",
			zap.String("batch_id", evt.SubjectID.String()),
			zap.String("batch_reference", evt.GetPayloadString("batch_reference")))
	}
	return nil
}
