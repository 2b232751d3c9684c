package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// PolicyFlag points a reviewer at a line item flagged as a policy exception.
type PolicyFlag struct {
	ItemID      uuid.UUID
	Category    entity.ExpenseCategory
	ExpenseDate time.Time
	Description *string
}

// QueueEntry is one submitted report awaiting manager review, with its line
// items and any policy exception flags surfaced for triage.
type QueueEntry struct {
	Report       entity.ExpenseReport
	HRIdentifier string
	LineItems    []entity.ExpenseItem
	PolicyFlags  []PolicyFlag
}

// ManagerService exposes manager-facing aggregates over pending reports.
type ManagerService interface {
	PendingQueue(ctx context.Context, actor Actor) ([]QueueEntry, error)
}

type managerService struct {
	reportRepo port.ReportRepository
	itemRepo   port.ItemRepository
	logger     Logger
}

// NewManagerService creates a new manager service instance.
func NewManagerService(reportRepo port.ReportRepository, itemRepo port.ItemRepository, logger Logger) ManagerService {
	return &managerService{
		reportRepo: reportRepo,
		itemRepo:   itemRepo,
		logger:     logger,
	}
}

// PendingQueue returns every submitted report, oldest first, with line items
// grouped per report. Only managers may read the queue.
func (s *managerService) PendingQueue(ctx context.Context, actor Actor) ([]QueueEntry, error) {
	if actor.Role != entity.RoleManager {
		return nil, ErrForbidden
	}

	submitted, err := s.reportRepo.ListSubmitted(ctx)
	if err != nil {
		s.logger.Error("Failed to list submitted reports", "error", err)
		return nil, Internal(err)
	}
	if len(submitted) == 0 {
		return []QueueEntry{}, nil
	}

	reportIDs := make([]uuid.UUID, 0, len(submitted))
	for _, report := range submitted {
		reportIDs = append(reportIDs, report.Report.ID)
	}
	items, err := s.itemRepo.ListByReportIDs(ctx, reportIDs)
	if err != nil {
		return nil, Internal(err)
	}

	itemsByReport := make(map[uuid.UUID][]entity.ExpenseItem, len(submitted))
	for _, item := range items {
		itemsByReport[item.ReportID] = append(itemsByReport[item.ReportID], item)
	}

	queue := make([]QueueEntry, 0, len(submitted))
	for _, report := range submitted {
		lineItems := itemsByReport[report.Report.ID]
		var flags []PolicyFlag
		for _, item := range lineItems {
			if item.IsPolicyException {
				flags = append(flags, PolicyFlag{
					ItemID:      item.ID,
					Category:    item.Category,
					ExpenseDate: item.ExpenseDate,
					Description: item.Description,
				})
			}
		}
		queue = append(queue, QueueEntry{
			Report:       report.Report,
			HRIdentifier: report.HRIdentifier,
			LineItems:    lineItems,
			PolicyFlags:  flags,
		})
	}
	return queue, nil
}
