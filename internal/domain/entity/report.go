package entity

import (
	"time"

	"github.com/google/uuid"
)

// ExpenseReport is the aggregate root of the approval workflow. It is created
// in draft by the owning employee and mutated only through status transitions.
type ExpenseReport struct {
	ID                     uuid.UUID    `json:"id"`
	EmployeeID             uuid.UUID    `json:"employee_id"`
	ReportingPeriodStart   time.Time    `json:"reporting_period_start"`
	ReportingPeriodEnd     time.Time    `json:"reporting_period_end"`
	Status                 ReportStatus `json:"status"`
	TotalAmountCents       int64        `json:"total_amount_cents"`
	TotalReimbursableCents int64        `json:"total_reimbursable_cents"`
	Currency               string       `json:"currency"`
	Version                int          `json:"version"`
	CreatedAt              time.Time    `json:"created_at"`
	UpdatedAt              time.Time    `json:"updated_at"`
}

// ExpenseItem is a single expense line belonging to exactly one report.
// For mileage items AmountCents holds the already-computed reimbursement.
type ExpenseItem struct {
	ID                uuid.UUID       `json:"id"`
	ReportID          uuid.UUID       `json:"report_id"`
	ExpenseDate       time.Time       `json:"expense_date"`
	Category          ExpenseCategory `json:"category"`
	GLAccountID       *uuid.UUID      `json:"gl_account_id,omitempty"`
	Description       *string         `json:"description,omitempty"`
	Attendees         *string         `json:"attendees,omitempty"`
	Location          *string         `json:"location,omitempty"`
	AmountCents       int64           `json:"amount_cents"`
	Reimbursable      bool            `json:"reimbursable"`
	PaymentMethod     *string         `json:"payment_method,omitempty"`
	IsPolicyException bool            `json:"is_policy_exception"`
}

// Receipt is an uploaded supporting document attached to one expense item.
// The FileKey is opaque to the domain; it addresses the storage backend.
type Receipt struct {
	ID            uuid.UUID `json:"id"`
	ExpenseItemID uuid.UUID `json:"expense_item_id"`
	FileKey       string    `json:"file_key"`
	FileName      string    `json:"file_name"`
	MimeType      string    `json:"mime_type"`
	SizeBytes     int64     `json:"size_bytes"`
	UploadedBy    uuid.UUID `json:"uploaded_by"`
	CreatedAt     time.Time `json:"created_at"`
}
