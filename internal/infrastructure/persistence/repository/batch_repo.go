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

// BatchRepository implements port.BatchRepository
type BatchRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *sql.DB, logger *zap.Logger) port.BatchRepository {
	return &BatchRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBatch inserts a new NetSuite batch record
func (r *BatchRepository) CreateBatch(ctx context.Context, batch *entity.NetSuiteBatch) error {
	query := `
		INSERT INTO netsuite_batches (id, batch_reference, finalized_by, finalized_at, status, exported_at, netsuite_response)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		batch.ID,
		batch.BatchReference,
		batch.FinalizedBy,
		batch.FinalizedAt,
		string(batch.Status),
		batch.ExportedAt,
		batch.NetSuiteResponse,
	)
	if err != nil {
		r.logger.Error("Failed to create batch", zap.Error(err))
		return fmt.Errorf("failed to create batch: %w", err)
	}

	return nil
}

// CreateJournalLine inserts a journal line into a batch
func (r *BatchRepository) CreateJournalLine(ctx context.Context, line *entity.JournalLine) error {
	query := `
		INSERT INTO journal_lines (id, batch_id, report_id, line_number, gl_account, amount_cents, department, class, memo, tax_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		line.ID,
		line.BatchID,
		line.ReportID,
		line.LineNumber,
		line.GLAccount,
		line.AmountCents,
		line.Department,
		line.Class,
		line.Memo,
		line.TaxCode,
	)
	if err != nil {
		r.logger.Error("Failed to create journal line", zap.Error(err))
		return fmt.Errorf("failed to create journal line: %w", err)
	}

	return nil
}

// MarkExported records a successful export on the batch row
func (r *BatchRepository) MarkExported(ctx context.Context, id uuid.UUID, exportedAt time.Time, response string) error {
	query := `UPDATE netsuite_batches SET status = ?, exported_at = ?, netsuite_response = ? WHERE id = ?`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query, string(entity.BatchStatusExported), exportedAt, response, id)
	if err != nil {
		r.logger.Error("Failed to mark batch exported", zap.String("id", id.String()), zap.Error(err))
		return fmt.Errorf("failed to mark batch exported: %w", err)
	}

	return nil
}

// RecentSummaries returns the newest batches with aggregated journal line
// counts and totals. Batches without lines still appear, with zero counts.
func (r *BatchRepository) RecentSummaries(ctx context.Context, limit int) ([]port.BatchSummary, error) {
	query := `
		SELECT b.id, b.batch_reference, b.finalized_by, b.finalized_at, b.status, b.exported_at, b.netsuite_response,
			COUNT(l.id) AS report_count,
			COALESCE(SUM(l.amount_cents), 0) AS total_amount_cents
		FROM netsuite_batches b
		LEFT JOIN journal_lines l ON l.batch_id = b.id
		GROUP BY b.id
		ORDER BY b.finalized_at DESC, b.id DESC
		LIMIT ?
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		r.logger.Error("Failed to list recent batches", zap.Error(err))
		return nil, fmt.Errorf("failed to list recent batches: %w", err)
	}
	defer rows.Close()

	var summaries []port.BatchSummary
	for rows.Next() {
		var summary port.BatchSummary
		var status string
		var exportedAt sql.NullTime
		err := rows.Scan(
			&summary.Batch.ID,
			&summary.Batch.BatchReference,
			&summary.Batch.FinalizedBy,
			&summary.Batch.FinalizedAt,
			&status,
			&exportedAt,
			&summary.Batch.NetSuiteResponse,
			&summary.ReportCount,
			&summary.TotalAmountCents,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan batch summary: %w", err)
		}
		summary.Batch.Status = entity.BatchStatus(status)
		if exportedAt.Valid {
			summary.Batch.ExportedAt = &exportedAt.Time
		}
		summaries = append(summaries, summary)
	}

	return summaries, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *BatchRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.BatchRepository = (*BatchRepository)(nil)
