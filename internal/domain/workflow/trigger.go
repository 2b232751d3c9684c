package workflow

// Trigger represents an action that can move a report through its lifecycle.
type Trigger string

const (
	TriggerSubmit          Trigger = "SUBMIT"
	TriggerManagerApprove  Trigger = "MANAGER_APPROVE"
	TriggerFinanceFinalize Trigger = "FINANCE_FINALIZE"
	TriggerRequestChanges  Trigger = "REQUEST_CHANGES"
	TriggerDeny            Trigger = "DENY"
)

// String returns the string representation of the trigger.
func (t Trigger) String() string {
	return string(t)
}
