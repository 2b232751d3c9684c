package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/sqlite"
)

// ReportRepository implements port.ReportRepository
type ReportRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB, logger *zap.Logger) port.ReportRepository {
	return &ReportRepository{
		db:     db,
		logger: logger,
	}
}

const reportColumns = `id, employee_id, reporting_period_start, reporting_period_end, status,
		total_amount_cents, total_reimbursable_cents, currency, version, created_at, updated_at`

// Create inserts a new expense report
func (r *ReportRepository) Create(ctx context.Context, report *entity.ExpenseReport) error {
	query := `
		INSERT INTO expense_reports (` + reportColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		report.ID,
		report.EmployeeID,
		report.ReportingPeriodStart,
		report.ReportingPeriodEnd,
		string(report.Status),
		report.TotalAmountCents,
		report.TotalReimbursableCents,
		report.Currency,
		report.Version,
		report.CreatedAt,
		report.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create report", zap.Error(err))
		return fmt.Errorf("failed to create report: %w", err)
	}

	return nil
}

// GetByID retrieves an expense report by ID
func (r *ReportRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseReport, error) {
	query := `SELECT ` + reportColumns + ` FROM expense_reports WHERE id = ?`

	report, err := scanReport(r.getExecutor(ctx).QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get report by ID", zap.String("id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// TransitionStatus moves a report between statuses with a single conditional
// update. The write only lands when the expected current status (and owner,
// when given) still holds; the returned bool reports whether a row changed.
// Successful transitions bump the optimistic version counter.
func (r *ReportRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReportStatus, ownerID *uuid.UUID) (bool, error) {
	query := `
		UPDATE expense_reports
		SET status = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND status = ?
	`
	args := []interface{}{string(to), time.Now().UTC(), id, string(from)}
	if ownerID != nil {
		query += ` AND employee_id = ?`
		args = append(args, *ownerID)
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to transition report status",
			zap.String("id", id.String()), zap.String("from", string(from)), zap.String("to", string(to)), zap.Error(err))
		return false, fmt.Errorf("failed to transition report status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// SetStatus overwrites a report's status without a precondition. The returned
// bool reports whether the row existed.
func (r *ReportRepository) SetStatus(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error) {
	query := `UPDATE expense_reports SET status = ?, updated_at = ? WHERE id = ?`

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, string(to), time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to set report status",
			zap.String("id", id.String()), zap.String("to", string(to)), zap.Error(err))
		return false, fmt.Errorf("failed to set report status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// Exists reports whether a report exists, optionally scoped to an owner
func (r *ReportRepository) Exists(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (bool, error) {
	query := `SELECT COUNT(*) FROM expense_reports WHERE id = ?`
	args := []interface{}{id}
	if ownerID != nil {
		query += ` AND employee_id = ?`
		args = append(args, *ownerID)
	}

	var count int
	if err := r.getExecutor(ctx).QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		r.logger.Error("Failed to check report existence", zap.String("id", id.String()), zap.Error(err))
		return false, fmt.Errorf("failed to check report existence: %w", err)
	}
	return count > 0, nil
}

// ListSubmitted retrieves all submitted reports joined with the owner's HR
// identifier, oldest first so managers review in arrival order
func (r *ReportRepository) ListSubmitted(ctx context.Context) ([]port.SubmittedReport, error) {
	query := `
		SELECT r.id, r.employee_id, r.reporting_period_start, r.reporting_period_end, r.status,
			r.total_amount_cents, r.total_reimbursable_cents, r.currency, r.version,
			r.created_at, r.updated_at, e.hr_identifier
		FROM expense_reports r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.status = ?
		ORDER BY r.updated_at ASC, r.id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, string(entity.StatusSubmitted))
	if err != nil {
		r.logger.Error("Failed to list submitted reports", zap.Error(err))
		return nil, fmt.Errorf("failed to list submitted reports: %w", err)
	}
	defer rows.Close()

	var submitted []port.SubmittedReport
	for rows.Next() {
		var entry port.SubmittedReport
		var status string
		err := rows.Scan(
			&entry.Report.ID,
			&entry.Report.EmployeeID,
			&entry.Report.ReportingPeriodStart,
			&entry.Report.ReportingPeriodEnd,
			&status,
			&entry.Report.TotalAmountCents,
			&entry.Report.TotalReimbursableCents,
			&entry.Report.Currency,
			&entry.Report.Version,
			&entry.Report.CreatedAt,
			&entry.Report.UpdatedAt,
			&entry.HRIdentifier,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submitted report: %w", err)
		}
		entry.Report.Status = entity.ReportStatus(status)
		submitted = append(submitted, entry)
	}

	return submitted, rows.Err()
}

func scanReport(row *sql.Row) (*entity.ExpenseReport, error) {
	var report entity.ExpenseReport
	var status string
	err := row.Scan(
		&report.ID,
		&report.EmployeeID,
		&report.ReportingPeriodStart,
		&report.ReportingPeriodEnd,
		&status,
		&report.TotalAmountCents,
		&report.TotalReimbursableCents,
		&report.Currency,
		&report.Version,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	report.Status = entity.ReportStatus(status)
	return &report, nil
}

// getExecutor returns appropriate executor based on context
func (r *ReportRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.ReportRepository = (*ReportRepository)(nil)
