package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// SubmittedReport pairs a report awaiting review with its owner's HR
// identifier for queue display.
type SubmittedReport struct {
	Report       entity.ExpenseReport
	HRIdentifier string
}

// BatchSummary aggregates a finalization batch with its journal line totals.
type BatchSummary struct {
	Batch            entity.NetSuiteBatch
	ReportCount      int
	TotalAmountCents int64
}

// ReportRepository defines persistence operations for ExpenseReport.
//
// Status transitions are single conditional updates: TransitionStatus only
// succeeds when the expected current status (and owner, when given) still
// holds, returning false otherwise. Callers distinguish not-found from
// conflict with a follow-up Exists check.
type ReportRepository interface {
	Create(ctx context.Context, report *entity.ExpenseReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseReport, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReportStatus, ownerID *uuid.UUID) (bool, error)
	SetStatus(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error)
	Exists(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (bool, error)
	ListSubmitted(ctx context.Context) ([]SubmittedReport, error)
}

// ItemRepository defines persistence operations for ExpenseItem.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.ExpenseItem) error
	GetByReportID(ctx context.Context, reportID uuid.UUID) ([]entity.ExpenseItem, error)
	ListByReportIDs(ctx context.Context, reportIDs []uuid.UUID) ([]entity.ExpenseItem, error)
}

// ReceiptRepository defines persistence operations for Receipt.
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Receipt, error)
}

// ApprovalRepository defines persistence operations for the append-only
// Approval audit trail.
type ApprovalRepository interface {
	Create(ctx context.Context, approval *entity.Approval) error
	GetByReportID(ctx context.Context, reportID uuid.UUID) ([]entity.Approval, error)
}

// PolicyCapRepository defines read operations for configured policy caps.
type PolicyCapRepository interface {
	ListByCategories(ctx context.Context, categories []entity.ExpenseCategory) ([]entity.PolicyCap, error)
}

// BatchRepository defines persistence operations for NetSuite batches and
// their journal lines.
type BatchRepository interface {
	CreateBatch(ctx context.Context, batch *entity.NetSuiteBatch) error
	CreateJournalLine(ctx context.Context, line *entity.JournalLine) error
	MarkExported(ctx context.Context, id uuid.UUID, exportedAt time.Time, response string) error
	RecentSummaries(ctx context.Context, limit int) ([]BatchSummary, error)
}

// EmployeeRepository defines read operations against the employee directory.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Employee, error)
	GetByHRIdentifier(ctx context.Context, hrIdentifier string) (*entity.Employee, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
