package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/policy"
)

// PolicyService evaluates stored reports against the configured policy caps.
type PolicyService interface {
	EvaluateReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*policy.Evaluation, error)
}

type policyService struct {
	reportRepo port.ReportRepository
	itemRepo   port.ItemRepository
	capRepo    port.PolicyCapRepository
	logger     Logger
}

// NewPolicyService creates a new policy service instance.
func NewPolicyService(
	reportRepo port.ReportRepository,
	itemRepo port.ItemRepository,
	capRepo port.PolicyCapRepository,
	logger Logger,
) PolicyService {
	return &policyService{
		reportRepo: reportRepo,
		itemRepo:   itemRepo,
		capRepo:    capRepo,
		logger:     logger,
	}
}

// EvaluateReport loads a report's items and the caps for their categories and
// returns the merged evaluation. The report owner and reviewers may evaluate;
// anyone else is refused. A report with no items evaluates as valid.
func (s *policyService) EvaluateReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*policy.Evaluation, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		s.logger.Error("Failed to load report for policy evaluation", "report_id", reportID, "error", err)
		return nil, Internal(err)
	}
	if report == nil {
		return nil, ErrNotFound
	}
	if report.EmployeeID != actor.EmployeeID && !actor.Role.IsReviewer() {
		return nil, ErrForbidden
	}

	items, err := s.itemRepo.GetByReportID(ctx, reportID)
	if err != nil {
		return nil, Internal(err)
	}
	if len(items) == 0 {
		evaluation := policy.OK()
		return &evaluation, nil
	}

	seen := make(map[entity.ExpenseCategory]bool)
	categories := make([]entity.ExpenseCategory, 0, len(items))
	for _, item := range items {
		if !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}

	caps, err := s.capRepo.ListByCategories(ctx, categories)
	if err != nil {
		return nil, Internal(err)
	}

	aggregate := policy.OK()
	for _, item := range items {
		aggregate.Merge(policy.EvaluateItem(item, caps))
		if item.IsPolicyException {
			aggregate.AddWarning(fmt.Sprintf("Expense item %s marked as a policy exception", item.ID))
		}
	}
	return &aggregate, nil
}
