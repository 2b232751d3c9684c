package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/event"
)

// DecisionInput is a manager or finance decision on a submitted report.
type DecisionInput struct {
	Status               entity.ApprovalStatus
	Comments             *string
	PolicyExceptionNotes *string
}

// ApprovalService records review decisions and drives the resulting report
// status transitions.
type ApprovalService interface {
	RecordDecision(ctx context.Context, actor Actor, reportID uuid.UUID, input DecisionInput) (*entity.Approval, error)
}

type approvalService struct {
	reportRepo   port.ReportRepository
	approvalRepo port.ApprovalRepository
	txManager    port.TransactionManager
	events       EventPublisher
	logger       Logger
}

// NewApprovalService creates a new approval service instance.
func NewApprovalService(
	reportRepo port.ReportRepository,
	approvalRepo port.ApprovalRepository,
	txManager port.TransactionManager,
	events EventPublisher,
	logger Logger,
) ApprovalService {
	return &approvalService{
		reportRepo:   reportRepo,
		approvalRepo: approvalRepo,
		txManager:    txManager,
		events:       events,
		logger:       logger,
	}
}

// RecordDecision appends an immutable approval row and, when the decision is
// an approval, promotes the report status: manager approval moves the report
// to manager_approved, finance approval to finance_finalized. The approval
// row and the status change commit or roll back as one unit.
//
// Denied and needs_changes decisions are recorded without touching report
// status; resubmission is handled outside this workflow.
func (s *approvalService) RecordDecision(ctx context.Context, actor Actor, reportID uuid.UUID, input DecisionInput) (*entity.Approval, error) {
	if !actor.hasAnyRole(entity.RoleManager, entity.RoleFinance) {
		return nil, ErrForbidden
	}

	approval := &entity.Approval{
		ID:                   uuid.New(),
		ReportID:             reportID,
		ApproverID:           actor.EmployeeID,
		Role:                 actor.Role,
		Status:               input.Status,
		Comments:             input.Comments,
		PolicyExceptionNotes: input.PolicyExceptionNotes,
		CreatedAt:            time.Now().UTC(),
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.approvalRepo.Create(ctx, approval); err != nil {
			return fmt.Errorf("create approval: %w", err)
		}
		if input.Status != entity.DecisionApproved {
			return nil
		}

		target := entity.StatusManagerApproved
		if actor.Role == entity.RoleFinance {
			target = entity.StatusFinanceFinalized
		}
		updated, err := s.reportRepo.SetStatus(ctx, reportID, target)
		if err != nil {
			return fmt.Errorf("transition report status: %w", err)
		}
		if !updated {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		s.logger.Error("Failed to record approval decision", "report_id", reportID, "approver_id", actor.EmployeeID, "error", err)
		return nil, Internal(err)
	}

	s.logger.Info("Approval decision recorded",
		"report_id", reportID, "approver_id", actor.EmployeeID, "role", actor.Role, "status", input.Status)
	s.events.Publish(ctx, event.NewEvent(event.TypeDecisionRecorded, reportID, actor.EmployeeID, map[string]interface{}{
		"status": input.Status.String(),
		"role":   actor.Role.String(),
	}))
	return approval, nil
}
