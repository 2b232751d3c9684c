package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/sqlite"
)

// ApprovalRepository implements port.ApprovalRepository
type ApprovalRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewApprovalRepository creates a new approval repository
func NewApprovalRepository(db *sql.DB, logger *zap.Logger) port.ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		logger: logger,
	}
}

// Create appends an approval decision to the audit trail
func (r *ApprovalRepository) Create(ctx context.Context, approval *entity.Approval) error {
	query := `
		INSERT INTO approvals (id, report_id, approver_id, role, status, comments, policy_exception_notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		approval.ID,
		approval.ReportID,
		approval.ApproverID,
		string(approval.Role),
		string(approval.Status),
		approval.Comments,
		approval.PolicyExceptionNotes,
		approval.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create approval", zap.Error(err))
		return fmt.Errorf("failed to create approval: %w", err)
	}

	return nil
}

// GetByReportID retrieves the approval history of a report, oldest first
func (r *ApprovalRepository) GetByReportID(ctx context.Context, reportID uuid.UUID) ([]entity.Approval, error) {
	query := `
		SELECT id, report_id, approver_id, role, status, comments, policy_exception_notes, created_at
		FROM approvals
		WHERE report_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, reportID)
	if err != nil {
		r.logger.Error("Failed to get approvals by report ID", zap.String("report_id", reportID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get approvals: %w", err)
	}
	defer rows.Close()

	var approvals []entity.Approval
	for rows.Next() {
		var approval entity.Approval
		var role, status string
		err := rows.Scan(
			&approval.ID,
			&approval.ReportID,
			&approval.ApproverID,
			&role,
			&status,
			&approval.Comments,
			&approval.PolicyExceptionNotes,
			&approval.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan approval: %w", err)
		}
		approval.Role = entity.Role(role)
		approval.Status = entity.ApprovalStatus(status)
		approvals = append(approvals, approval)
	}

	return approvals, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *ApprovalRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.ApprovalRepository = (*ApprovalRepository)(nil)
