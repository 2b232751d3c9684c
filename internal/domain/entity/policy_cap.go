package entity

import (
	"time"

	"github.com/google/uuid"
)

// PolicyCap is a configured spending limit for a category over a date range.
// ActiveFrom is inclusive; a nil ActiveTo means the cap is open-ended.
// Caps for the same category are expected not to overlap in steady-state
// data, but the policy engine does not rely on that.
type PolicyCap struct {
	ID          uuid.UUID       `json:"id"`
	PolicyKey   string          `json:"policy_key"`
	Category    ExpenseCategory `json:"category"`
	LimitType   string          `json:"limit_type"`
	AmountCents int64           `json:"amount_cents"`
	Notes       *string         `json:"notes,omitempty"`
	ActiveFrom  time.Time       `json:"active_from"`
	ActiveTo    *time.Time      `json:"active_to,omitempty"`
}

// ActiveOn reports whether the cap applies on the given date.
func (c PolicyCap) ActiveOn(date time.Time) bool {
	if date.Before(c.ActiveFrom) {
		return false
	}
	if c.ActiveTo != nil && date.After(*c.ActiveTo) {
		return false
	}
	return true
}
