package auth

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/application/service"
)

// BypassResolver impersonates a configured employee when the development
// auth bypass is enabled. The directory lookup runs once per process and the
// result is cached for its lifetime; the underlying mapping is operationally
// static, so the cache is never invalidated.
type BypassResolver struct {
	enabled      bool
	hrIdentifier string
	employees    port.EmployeeRepository
	logger       *zap.Logger

	once   sync.Once
	cached *service.Actor
}

// NewBypassResolver creates a resolver for the development bypass path
func NewBypassResolver(enabled bool, hrIdentifier string, employees port.EmployeeRepository, logger *zap.Logger) *BypassResolver {
	trimmed := strings.TrimSpace(hrIdentifier)
	if enabled {
		if trimmed == "" {
			logger.Warn("Authentication bypass enabled without a fallback employee; requests will be rejected")
		} else {
			logger.Warn("Authentication bypass enabled; requests will impersonate this employee",
				zap.String("hr_identifier", trimmed))
		}
	}
	return &BypassResolver{
		enabled:      enabled,
		hrIdentifier: trimmed,
		employees:    employees,
		logger:       logger,
	}
}

// Resolve returns the impersonated actor, or nil when the bypass is disabled,
// unconfigured, or names an unknown employee.
func (r *BypassResolver) Resolve(ctx context.Context) *service.Actor {
	if !r.enabled || r.hrIdentifier == "" {
		return nil
	}

	r.once.Do(func() {
		employee, err := r.employees.GetByHRIdentifier(ctx, r.hrIdentifier)
		if err != nil {
			r.logger.Warn("Failed to resolve bypass employee", zap.Error(err))
			return
		}
		if employee == nil {
			r.logger.Warn("Authentication bypass employee not found",
				zap.String("hr_identifier", r.hrIdentifier))
			return
		}
		r.cached = &service.Actor{EmployeeID: employee.ID, Role: employee.Role}
	})

	return r.cached
}
