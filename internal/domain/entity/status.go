package entity

import (
	"fmt"
	"strings"
)

// ReportStatus is the lifecycle state of an expense report.
type ReportStatus string

const (
	StatusDraft            ReportStatus = "draft"
	StatusSubmitted        ReportStatus = "submitted"
	StatusManagerApproved  ReportStatus = "manager_approved"
	StatusFinanceFinalized ReportStatus = "finance_finalized"
	StatusNeedsChanges     ReportStatus = "needs_changes"
	StatusDenied           ReportStatus = "denied"
)

var validReportStatuses = map[ReportStatus]bool{
	StatusDraft:            true,
	StatusSubmitted:        true,
	StatusManagerApproved:  true,
	StatusFinanceFinalized: true,
	StatusNeedsChanges:     true,
	StatusDenied:           true,
}

var terminalReportStatuses = map[ReportStatus]bool{
	StatusFinanceFinalized: true,
	StatusDenied:           true,
}

// ParseReportStatus converts a stored string into a ReportStatus, rejecting
// unknown values.
func ParseReportStatus(s string) (ReportStatus, error) {
	status := ReportStatus(strings.ToLower(s))
	if !validReportStatuses[status] {
		return "", fmt.Errorf("unknown report status %q", s)
	}
	return status, nil
}

// IsTerminal returns true if no further transitions are allowed from the status.
func (s ReportStatus) IsTerminal() bool {
	return terminalReportStatuses[s]
}

// IsValid returns true if the status is a known lifecycle state.
func (s ReportStatus) IsValid() bool {
	return validReportStatuses[s]
}

// String returns the string representation of the status.
func (s ReportStatus) String() string {
	return string(s)
}
