package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus is the decision recorded by a reviewer.
type ApprovalStatus string

const (
	DecisionApproved     ApprovalStatus = "approved"
	DecisionDenied       ApprovalStatus = "denied"
	DecisionNeedsChanges ApprovalStatus = "needs_changes"
)

var validApprovalStatuses = map[ApprovalStatus]bool{
	DecisionApproved:     true,
	DecisionDenied:       true,
	DecisionNeedsChanges: true,
}

// ParseApprovalStatus converts a stored string into an ApprovalStatus,
// rejecting unknown values.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	status := ApprovalStatus(strings.ToLower(s))
	if !validApprovalStatuses[status] {
		return "", fmt.Errorf("unknown approval status %q", s)
	}
	return status, nil
}

// String returns the string representation of the decision status.
func (s ApprovalStatus) String() string {
	return string(s)
}

// Approval is an immutable audit record of one reviewer decision. A report
// accumulates approvals across its lifetime; rows are never updated.
type Approval struct {
	ID                   uuid.UUID      `json:"id"`
	ReportID             uuid.UUID      `json:"report_id"`
	ApproverID           uuid.UUID      `json:"approver_id"`
	Role                 Role           `json:"role"`
	Status               ApprovalStatus `json:"status"`
	Comments             *string        `json:"comments,omitempty"`
	PolicyExceptionNotes *string        `json:"policy_exception_notes,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
}
