package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/event"
)

func TestApprovalService_RecordDecision_RoleGate(t *testing.T) {
	for _, role := range []entity.Role{entity.RoleEmployee, entity.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			recorded := false
			approvalRepo := &mockApprovalRepo{
				createFunc: func(ctx context.Context, approval *entity.Approval) error {
					recorded = true
					return nil
				},
			}
			svc := NewApprovalService(&mockReportRepo{}, approvalRepo, &mockTxManager{}, &mockPublisher{}, &mockLogger{})

			_, err := svc.RecordDecision(context.Background(), Actor{EmployeeID: uuid.New(), Role: role}, uuid.New(),
				DecisionInput{Status: entity.DecisionApproved})

			assert.ErrorIs(t, err, ErrForbidden)
			assert.False(t, recorded, "no approval row for refused actors")
		})
	}
}

func TestApprovalService_RecordDecision_ApprovalTransitions(t *testing.T) {
	tests := []struct {
		name       string
		role       entity.Role
		decision   entity.ApprovalStatus
		wantStatus entity.ReportStatus
		wantMoved  bool
	}{
		{name: "manager approval promotes report", role: entity.RoleManager, decision: entity.DecisionApproved, wantStatus: entity.StatusManagerApproved, wantMoved: true},
		{name: "finance approval finalizes report", role: entity.RoleFinance, decision: entity.DecisionApproved, wantStatus: entity.StatusFinanceFinalized, wantMoved: true},
		{name: "denial leaves status alone", role: entity.RoleManager, decision: entity.DecisionDenied},
		{name: "needs changes leaves status alone", role: entity.RoleManager, decision: entity.DecisionNeedsChanges},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reportID := uuid.New()
			approver := uuid.New()

			var movedTo *entity.ReportStatus
			reportRepo := &mockReportRepo{
				setStatusFunc: func(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error) {
					assert.Equal(t, reportID, id)
					movedTo = &to
					return true, nil
				},
			}
			var recorded *entity.Approval
			approvalRepo := &mockApprovalRepo{
				createFunc: func(ctx context.Context, approval *entity.Approval) error {
					recorded = approval
					return nil
				},
			}
			svc := NewApprovalService(reportRepo, approvalRepo, &mockTxManager{}, &mockPublisher{}, &mockLogger{})

			comments := "reviewed receipts"
			approval, err := svc.RecordDecision(context.Background(), Actor{EmployeeID: approver, Role: tt.role}, reportID,
				DecisionInput{Status: tt.decision, Comments: &comments})

			require.NoError(t, err)
			require.NotNil(t, recorded)
			assert.Equal(t, reportID, approval.ReportID)
			assert.Equal(t, approver, approval.ApproverID)
			assert.Equal(t, tt.role, approval.Role)
			assert.Equal(t, tt.decision, approval.Status)
			require.NotNil(t, approval.Comments)
			assert.Equal(t, comments, *approval.Comments)

			if tt.wantMoved {
				require.NotNil(t, movedTo)
				assert.Equal(t, tt.wantStatus, *movedTo)
			} else {
				assert.Nil(t, movedTo, "non-approvals must not touch report status")
			}
		})
	}
}

func TestApprovalService_RecordDecision_MissingReportAbortsTransaction(t *testing.T) {
	reportRepo := &mockReportRepo{
		setStatusFunc: func(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error) {
			return false, nil
		},
	}
	var txErr error
	txManager := &mockTxManager{
		withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
			txErr = fn(ctx)
			return txErr
		},
	}
	svc := NewApprovalService(reportRepo, &mockApprovalRepo{}, txManager, &mockPublisher{}, &mockLogger{})

	_, err := svc.RecordDecision(context.Background(), Actor{EmployeeID: uuid.New(), Role: entity.RoleManager}, uuid.New(),
		DecisionInput{Status: entity.DecisionApproved})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Error(t, txErr, "transaction callback must fail so the approval row rolls back")
}

func TestApprovalService_RecordDecision_PublishesEvent(t *testing.T) {
	publisher := &mockPublisher{}
	svc := NewApprovalService(&mockReportRepo{}, &mockApprovalRepo{}, &mockTxManager{}, publisher, &mockLogger{})

	actor := Actor{EmployeeID: uuid.New(), Role: entity.RoleManager}
	reportID := uuid.New()
	_, err := svc.RecordDecision(context.Background(), actor, reportID, DecisionInput{Status: entity.DecisionApproved})
	require.NoError(t, err)

	require.Len(t, publisher.published, 1)
	evt := publisher.published[0]
	assert.Equal(t, event.TypeDecisionRecorded, evt.Type)
	assert.Equal(t, reportID, evt.SubjectID)
	assert.Equal(t, actor.EmployeeID, evt.ActorID)
	assert.Equal(t, "approved", evt.GetPayloadString("status"))
}
