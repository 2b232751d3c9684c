package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/sqlite"
)

// ItemRepository implements port.ItemRepository
type ItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB, logger *zap.Logger) port.ItemRepository {
	return &ItemRepository{
		db:     db,
		logger: logger,
	}
}

const itemColumns = `id, report_id, expense_date, category, gl_account_id, description,
		attendees, location, payment_method, amount_cents, reimbursable, is_policy_exception`

// Create inserts a new expense item
func (r *ItemRepository) Create(ctx context.Context, item *entity.ExpenseItem) error {
	query := `
		INSERT INTO expense_items (` + itemColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		item.ID,
		item.ReportID,
		item.ExpenseDate,
		string(item.Category),
		uuidOrNil(item.GLAccountID),
		item.Description,
		item.Attendees,
		item.Location,
		item.PaymentMethod,
		item.AmountCents,
		item.Reimbursable,
		item.IsPolicyException,
	)
	if err != nil {
		r.logger.Error("Failed to create expense item", zap.Error(err))
		return fmt.Errorf("failed to create expense item: %w", err)
	}

	return nil
}

// GetByReportID retrieves all items belonging to a report
func (r *ItemRepository) GetByReportID(ctx context.Context, reportID uuid.UUID) ([]entity.ExpenseItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM expense_items
		WHERE report_id = ?
		ORDER BY expense_date ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, reportID)
	if err != nil {
		r.logger.Error("Failed to get items by report ID", zap.String("report_id", reportID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get expense items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListByReportIDs retrieves items for a set of reports in one query
func (r *ItemRepository) ListByReportIDs(ctx context.Context, reportIDs []uuid.UUID) ([]entity.ExpenseItem, error) {
	if len(reportIDs) == 0 {
		return []entity.ExpenseItem{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(reportIDs)), ",")
	query := `
		SELECT ` + itemColumns + `
		FROM expense_items
		WHERE report_id IN (` + placeholders + `)
		ORDER BY expense_date ASC, id ASC
	`
	args := make([]interface{}, 0, len(reportIDs))
	for _, id := range reportIDs {
		args = append(args, id)
	}

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list items by report IDs", zap.Int("report_count", len(reportIDs)), zap.Error(err))
		return nil, fmt.Errorf("failed to list expense items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]entity.ExpenseItem, error) {
	var items []entity.ExpenseItem
	for rows.Next() {
		var item entity.ExpenseItem
		var category string
		var glAccountID sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.ReportID,
			&item.ExpenseDate,
			&category,
			&glAccountID,
			&item.Description,
			&item.Attendees,
			&item.Location,
			&item.PaymentMethod,
			&item.AmountCents,
			&item.Reimbursable,
			&item.IsPolicyException,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense item: %w", err)
		}
		item.Category = entity.ExpenseCategory(category)
		if glAccountID.Valid {
			parsed, err := uuid.Parse(glAccountID.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse gl_account_id: %w", err)
			}
			item.GLAccountID = &parsed
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// uuidOrNil converts an optional UUID into a bindable value
func uuidOrNil(id *uuid.UUID) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// getExecutor returns appropriate executor based on context
func (r *ItemRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.ItemRepository = (*ItemRepository)(nil)
