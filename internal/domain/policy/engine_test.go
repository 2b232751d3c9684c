package policy

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/garyjia/expense-approval/internal/domain/entity"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func mealItem(day time.Time, amountCents int64) entity.ExpenseItem {
	return entity.ExpenseItem{
		ID:           uuid.New(),
		ReportID:     uuid.New(),
		ExpenseDate:  day,
		Category:     entity.CategoryMeal,
		AmountCents:  amountCents,
		Reimbursable: true,
	}
}

func mealCap(amountCents int64, activeFrom time.Time, activeTo *time.Time) entity.PolicyCap {
	return entity.PolicyCap{
		ID:          uuid.New(),
		PolicyKey:   "meal_per_diem",
		Category:    entity.CategoryMeal,
		LimitType:   "per_diem",
		AmountCents: amountCents,
		ActiveFrom:  activeFrom,
		ActiveTo:    activeTo,
	}
}

func TestEvaluateItem_MealWithinCap(t *testing.T) {
	day := date(2024, time.March, 1)
	caps := []entity.PolicyCap{mealCap(5_000, day, nil)}

	evaluation := EvaluateItem(mealItem(day, 4_000), caps)

	assert.True(t, evaluation.IsValid)
	assert.Empty(t, evaluation.Violations)
}

func TestEvaluateItem_MealOverCapRendersDollars(t *testing.T) {
	day := date(2024, time.May, 1)
	caps := []entity.PolicyCap{mealCap(5_000, date(2024, time.January, 1), nil)}

	evaluation := EvaluateItem(mealItem(day, 7_500), caps)

	assert.False(t, evaluation.IsValid)
	assert.Len(t, evaluation.Violations, 1)
	assert.Contains(t, evaluation.Violations[0], "$50.00")
}

func TestEvaluateItem_MealNoActiveCapIsValid(t *testing.T) {
	day := date(2024, time.May, 1)
	expired := date(2024, time.February, 1)
	caps := []entity.PolicyCap{mealCap(5_000, date(2024, time.January, 1), &expired)}

	evaluation := EvaluateItem(mealItem(day, 100_000), caps)

	assert.True(t, evaluation.IsValid)
}

func TestEvaluateItem_MealCapBoundaryDatesAreInclusive(t *testing.T) {
	from := date(2024, time.January, 1)
	to := date(2024, time.June, 30)
	caps := []entity.PolicyCap{mealCap(5_000, from, &to)}

	assert.False(t, EvaluateItem(mealItem(from, 6_000), caps).IsValid)
	assert.False(t, EvaluateItem(mealItem(to, 6_000), caps).IsValid)
	assert.True(t, EvaluateItem(mealItem(date(2024, time.July, 1), 6_000), caps).IsValid)
}

func TestEvaluateItem_MealReportsEveryActiveCap(t *testing.T) {
	day := date(2024, time.May, 1)
	caps := []entity.PolicyCap{
		mealCap(5_000, date(2024, time.January, 1), nil),
		mealCap(6_000, date(2024, time.January, 1), nil),
	}

	evaluation := EvaluateItem(mealItem(day, 7_500), caps)

	assert.False(t, evaluation.IsValid)
	assert.Len(t, evaluation.Violations, 2)
}

func TestEvaluateItem_MileageUsesFirstActiveCap(t *testing.T) {
	day := date(2024, time.May, 1)
	item := entity.ExpenseItem{
		ID:          uuid.New(),
		ExpenseDate: day,
		Category:    entity.CategoryMileage,
		AmountCents: 9_000,
	}
	caps := []entity.PolicyCap{
		{
			ID:          uuid.New(),
			PolicyKey:   "mileage_rate",
			Category:    entity.CategoryMileage,
			LimitType:   "per_trip",
			AmountCents: 10_000,
			ActiveFrom:  date(2024, time.January, 1),
		},
		{
			// A second, tighter cap must not be consulted once the first matches.
			ID:          uuid.New(),
			PolicyKey:   "mileage_rate_legacy",
			Category:    entity.CategoryMileage,
			LimitType:   "per_trip",
			AmountCents: 1_000,
			ActiveFrom:  date(2024, time.January, 1),
		},
	}

	assert.True(t, EvaluateItem(item, caps).IsValid)

	item.AmountCents = 12_000
	evaluation := EvaluateItem(item, caps)
	assert.False(t, evaluation.IsValid)
	assert.Equal(t, []string{"Mileage exceeds configured reimbursement rate"}, evaluation.Violations)
}

func TestEvaluateItem_UncappedCategoriesAlwaysValid(t *testing.T) {
	day := date(2024, time.May, 1)
	caps := []entity.PolicyCap{mealCap(1, date(2024, time.January, 1), nil)}

	for _, category := range []entity.ExpenseCategory{
		entity.CategoryAirfare,
		entity.CategoryLodging,
		entity.CategoryGroundTransport,
		entity.CategorySupplies,
		entity.CategoryOther,
	} {
		item := entity.ExpenseItem{ID: uuid.New(), ExpenseDate: day, Category: category, AmountCents: 1_000_000}
		assert.True(t, EvaluateItem(item, caps).IsValid, "category %s", category)
	}
}

func TestEvaluation_Merge(t *testing.T) {
	aggregate := OK()
	aggregate.Merge(OK())
	assert.True(t, aggregate.IsValid)

	aggregate.Merge(Evaluation{IsValid: false, Violations: []string{"over limit"}})
	aggregate.Merge(Evaluation{IsValid: true, Warnings: []string{"flagged"}})

	assert.False(t, aggregate.IsValid)
	assert.Equal(t, []string{"over limit"}, aggregate.Violations)
	assert.Equal(t, []string{"flagged"}, aggregate.Warnings)
}

func TestEvaluation_AddWarningKeepsValidity(t *testing.T) {
	evaluation := OK()
	evaluation.AddWarning("item flagged as a policy exception")

	assert.True(t, evaluation.IsValid)
	assert.Len(t, evaluation.Warnings, 1)
}
