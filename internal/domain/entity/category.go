package entity

import (
	"fmt"
	"strings"
)

// ExpenseCategory classifies a single expense line item.
type ExpenseCategory string

const (
	CategoryAirfare         ExpenseCategory = "airfare"
	CategoryLodging         ExpenseCategory = "lodging"
	CategoryMeal            ExpenseCategory = "meal"
	CategoryGroundTransport ExpenseCategory = "ground_transport"
	CategoryMileage         ExpenseCategory = "mileage"
	CategorySupplies        ExpenseCategory = "supplies"
	CategoryOther           ExpenseCategory = "other"
)

var validCategories = map[ExpenseCategory]bool{
	CategoryAirfare:         true,
	CategoryLodging:         true,
	CategoryMeal:            true,
	CategoryGroundTransport: true,
	CategoryMileage:         true,
	CategorySupplies:        true,
	CategoryOther:           true,
}

// ParseExpenseCategory converts a stored string into an ExpenseCategory,
// rejecting unknown values.
func ParseExpenseCategory(s string) (ExpenseCategory, error) {
	category := ExpenseCategory(strings.ToLower(s))
	if !validCategories[category] {
		return "", fmt.Errorf("unknown expense category %q", s)
	}
	return category, nil
}

// String returns the string representation of the category.
func (c ExpenseCategory) String() string {
	return string(c)
}
