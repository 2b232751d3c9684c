package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BatchStatus is the export state of a finalization batch.
type BatchStatus string

const (
	BatchStatusPending  BatchStatus = "pending"
	BatchStatusExported BatchStatus = "exported"
	BatchStatusFailed   BatchStatus = "failed"
)

var validBatchStatuses = map[BatchStatus]bool{
	BatchStatusPending:  true,
	BatchStatusExported: true,
	BatchStatusFailed:   true,
}

// ParseBatchStatus converts a stored string into a BatchStatus, rejecting
// unknown values.
func ParseBatchStatus(s string) (BatchStatus, error) {
	status := BatchStatus(strings.ToLower(s))
	if !validBatchStatuses[status] {
		return "", fmt.Errorf("unknown batch status %q", s)
	}
	return status, nil
}

// IsValid returns true if the status is a known export state.
func (s BatchStatus) IsValid() bool {
	return validBatchStatuses[s]
}

// String returns the string representation of the status.
func (s BatchStatus) String() string {
	return string(s)
}

// NetSuiteBatch groups the journal lines produced by one finalization call.
type NetSuiteBatch struct {
	ID               uuid.UUID   `json:"id"`
	BatchReference   string      `json:"batch_reference"`
	FinalizedBy      uuid.UUID   `json:"finalized_by"`
	FinalizedAt      time.Time   `json:"finalized_at"`
	Status           BatchStatus `json:"status"`
	ExportedAt       *time.Time  `json:"exported_at,omitempty"`
	NetSuiteResponse *string     `json:"netsuite_response,omitempty"`
}

// JournalLine associates a report to a GL account and amount within a batch.
// Lines are immutable once written and ordered by LineNumber.
type JournalLine struct {
	ID          uuid.UUID `json:"id"`
	BatchID     uuid.UUID `json:"batch_id"`
	ReportID    uuid.UUID `json:"report_id"`
	LineNumber  int       `json:"line_number"`
	GLAccount   string    `json:"gl_account"`
	AmountCents int64     `json:"amount_cents"`
	Department  *string   `json:"department,omitempty"`
	Class       *string   `json:"class,omitempty"`
	Memo        *string   `json:"memo,omitempty"`
	TaxCode     *string   `json:"tax_code,omitempty"`
}
