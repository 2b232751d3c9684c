package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/event"
)

// Logger defines the logging interface for services
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// EventPublisher broadcasts domain events after state changes commit.
// Publication is fire-and-forget; delivery failures never affect the
// operation that raised the event.
type EventPublisher interface {
	Publish(ctx context.Context, evt *event.Event)
}

// Actor is the authenticated caller of a service operation, resolved from the
// request token by the transport layer.
type Actor struct {
	EmployeeID uuid.UUID
	Role       entity.Role
}

// hasAnyRole reports whether the actor holds one of the given roles.
func (a Actor) hasAnyRole(roles ...entity.Role) bool {
	for _, role := range roles {
		if a.Role == role {
			return true
		}
	}
	return false
}
