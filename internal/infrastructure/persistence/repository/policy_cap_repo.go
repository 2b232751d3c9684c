package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/infrastructure/persistence/sqlite"
)

// PolicyCapRepository implements port.PolicyCapRepository
type PolicyCapRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPolicyCapRepository creates a new policy cap repository
func NewPolicyCapRepository(db *sql.DB, logger *zap.Logger) port.PolicyCapRepository {
	return &PolicyCapRepository{
		db:     db,
		logger: logger,
	}
}

// ListByCategories retrieves every cap configured for the given categories.
// Date-range filtering happens in the policy engine, which knows each item's
// expense date.
func (r *PolicyCapRepository) ListByCategories(ctx context.Context, categories []entity.ExpenseCategory) ([]entity.PolicyCap, error) {
	if len(categories) == 0 {
		return []entity.PolicyCap{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(categories)), ",")
	query := `
		SELECT id, policy_key, category, limit_type, amount_cents, notes, active_from, active_to
		FROM policy_caps
		WHERE category IN (` + placeholders + `)
	`
	args := make([]interface{}, 0, len(categories))
	for _, category := range categories {
		args = append(args, string(category))
	}

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list policy caps", zap.Error(err))
		return nil, fmt.Errorf("failed to list policy caps: %w", err)
	}
	defer rows.Close()

	var caps []entity.PolicyCap
	for rows.Next() {
		var cap entity.PolicyCap
		var category string
		var activeTo sql.NullTime
		err := rows.Scan(
			&cap.ID,
			&cap.PolicyKey,
			&category,
			&cap.LimitType,
			&cap.AmountCents,
			&cap.Notes,
			&cap.ActiveFrom,
			&activeTo,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy cap: %w", err)
		}
		cap.Category = entity.ExpenseCategory(category)
		if activeTo.Valid {
			cap.ActiveTo = &activeTo.Time
		}
		caps = append(caps, cap)
	}

	return caps, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *PolicyCapRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.PolicyCapRepository = (*PolicyCapRepository)(nil)
