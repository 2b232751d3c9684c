// Package workflow defines the canonical expense report lifecycle:
//
//	draft → submitted → {manager_approved → finance_finalized} | needs_changes | denied
//
// The machine validates transitions in memory and reports permitted actions.
// Cross-process races are resolved by the store's conditional updates, not
// here; callers treat a zero-row update as the authoritative conflict signal.
package workflow

import (
	"fmt"
	"sort"

	"github.com/garyjia/expense-approval/internal/domain/entity"
)

var transitions = map[entity.ReportStatus]map[Trigger]entity.ReportStatus{
	entity.StatusDraft: {
		TriggerSubmit: entity.StatusSubmitted,
	},
	entity.StatusSubmitted: {
		TriggerManagerApprove: entity.StatusManagerApproved,
		TriggerRequestChanges: entity.StatusNeedsChanges,
		TriggerDeny:           entity.StatusDenied,
	},
	entity.StatusManagerApproved: {
		TriggerFinanceFinalize: entity.StatusFinanceFinalized,
	},
}

// Machine tracks the status of one report and validates lifecycle triggers.
type Machine struct {
	current entity.ReportStatus
}

// NewReportLifecycle creates a machine positioned at the given status.
func NewReportLifecycle(current entity.ReportStatus) (*Machine, error) {
	if !current.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, current)
	}
	return &Machine{current: current}, nil
}

// State returns the current status.
func (m *Machine) State() entity.ReportStatus {
	return m.current
}

// CanFire returns true if the trigger is permitted in the current status.
func (m *Machine) CanFire(trigger Trigger) bool {
	_, ok := transitions[m.current][trigger]
	return ok
}

// Fire executes the trigger, moving to the new status if allowed.
func (m *Machine) Fire(trigger Trigger) error {
	next, ok := transitions[m.current][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, m.current)
	}
	m.current = next
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current
// status, sorted for stable output.
func (m *Machine) PermittedTriggers() []Trigger {
	permitted := make([]Trigger, 0, len(transitions[m.current]))
	for trigger := range transitions[m.current] {
		permitted = append(permitted, trigger)
	}
	sort.Slice(permitted, func(i, j int) bool { return permitted[i] < permitted[j] })
	return permitted
}
