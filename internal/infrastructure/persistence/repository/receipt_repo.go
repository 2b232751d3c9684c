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

// ReceiptRepository implements port.ReceiptRepository
type ReceiptRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *sql.DB, logger *zap.Logger) port.ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new receipt record
func (r *ReceiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	query := `
		INSERT INTO receipts (id, expense_item_id, file_key, file_name, mime_type, size_bytes, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		receipt.ID,
		receipt.ExpenseItemID,
		receipt.FileKey,
		receipt.FileName,
		receipt.MimeType,
		receipt.SizeBytes,
		receipt.UploadedBy,
		receipt.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create receipt", zap.Error(err))
		return fmt.Errorf("failed to create receipt: %w", err)
	}

	return nil
}

// GetByItemID retrieves all receipts attached to an expense item
func (r *ReceiptRepository) GetByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Receipt, error) {
	query := `
		SELECT id, expense_item_id, file_key, file_name, mime_type, size_bytes, uploaded_by, created_at
		FROM receipts
		WHERE expense_item_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.getExecutor(ctx).QueryContext(ctx, query, itemID)
	if err != nil {
		r.logger.Error("Failed to get receipts by item ID", zap.String("item_id", itemID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get receipts: %w", err)
	}
	defer rows.Close()

	var receipts []entity.Receipt
	for rows.Next() {
		var receipt entity.Receipt
		err := rows.Scan(
			&receipt.ID,
			&receipt.ExpenseItemID,
			&receipt.FileKey,
			&receipt.FileName,
			&receipt.MimeType,
			&receipt.SizeBytes,
			&receipt.UploadedBy,
			&receipt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}

	return receipts, rows.Err()
}

// getExecutor returns appropriate executor based on context
func (r *ReceiptRepository) getExecutor(ctx context.Context) sqlite.Executor {
	return sqlite.ExecutorFrom(ctx, r.db)
}

// Verify interface compliance
var _ port.ReceiptRepository = (*ReceiptRepository)(nil)
