// Package policy evaluates expense line items against configured category
// caps. It is pure: no I/O, no clock, no persistence.
package policy

import (
	"fmt"

	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// Evaluation is the aggregate outcome of checking one or more items.
// Violations fail the evaluation; warnings are advisory and leave IsValid
// untouched.
type Evaluation struct {
	IsValid    bool     `json:"is_valid"`
	Violations []string `json:"violations"`
	Warnings   []string `json:"warnings"`
}

// OK returns a passing evaluation with no findings.
func OK() Evaluation {
	return Evaluation{IsValid: true}
}

// Merge folds another evaluation into this one. Any invalid input makes the
// receiver invalid.
func (e *Evaluation) Merge(other Evaluation) {
	if !other.IsValid {
		e.IsValid = false
	}
	e.Violations = append(e.Violations, other.Violations...)
	e.Warnings = append(e.Warnings, other.Warnings...)
}

// AddWarning records an advisory finding without failing the evaluation.
func (e *Evaluation) AddWarning(message string) {
	e.Warnings = append(e.Warnings, message)
}

// EvaluateItem checks a single item against the supplied caps. Categories
// without configured policy are always valid.
func EvaluateItem(item entity.ExpenseItem, caps []entity.PolicyCap) Evaluation {
	switch item.Category {
	case entity.CategoryMeal:
		return checkMeal(item, caps)
	case entity.CategoryMileage:
		return checkMileage(item, caps)
	default:
		return OK()
	}
}

// checkMeal evaluates every active meal cap; overlapping caps are not assumed
// away, so each active one can contribute a violation.
func checkMeal(item entity.ExpenseItem, caps []entity.PolicyCap) Evaluation {
	evaluation := OK()
	for _, cap := range caps {
		if cap.Category != entity.CategoryMeal || !cap.ActiveOn(item.ExpenseDate) {
			continue
		}
		if item.AmountCents > cap.AmountCents {
			evaluation.IsValid = false
			evaluation.Violations = append(evaluation.Violations,
				fmt.Sprintf("Meal exceeds per-diem limit of $%.2f", float64(cap.AmountCents)/100.0))
		}
	}
	return evaluation
}

// checkMileage uses the first active mileage cap only. The item amount is the
// already-computed reimbursement, not raw miles.
func checkMileage(item entity.ExpenseItem, caps []entity.PolicyCap) Evaluation {
	for _, cap := range caps {
		if cap.Category != entity.CategoryMileage || !cap.ActiveOn(item.ExpenseDate) {
			continue
		}
		if item.AmountCents > cap.AmountCents {
			return Evaluation{
				IsValid:    false,
				Violations: []string{"Mileage exceeds configured reimbursement rate"},
			}
		}
		return OK()
	}
	return OK()
}
