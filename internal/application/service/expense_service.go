package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/event"
	"github.com/garyjia/expense-approval/internal/domain/workflow"
)

// ReceiptRules are the configured acceptance limits for declared receipts.
type ReceiptRules struct {
	MaxSizeBytes    int64
	MaxFilesPerItem int
}

// CreateReceiptInput declares an uploaded receipt to attach to a line item.
type CreateReceiptInput struct {
	FileKey   string
	FileName  string
	MimeType  string
	SizeBytes int64
}

// CreateItemInput is one expense line of a new report.
type CreateItemInput struct {
	ExpenseDate   time.Time
	Category      entity.ExpenseCategory
	GLAccountID   *uuid.UUID
	Description   *string
	Attendees     *string
	Location      *string
	PaymentMethod *string
	AmountCents   int64
	Reimbursable  bool
	Receipts      []CreateReceiptInput
}

// CreateReportInput is the payload for creating a draft report.
type CreateReportInput struct {
	ReportingPeriodStart time.Time
	ReportingPeriodEnd   time.Time
	Currency             string
	Items                []CreateItemInput
}

// ReportDetail is a report with its line items and the lifecycle actions
// currently permitted from its status.
type ReportDetail struct {
	Report           entity.ExpenseReport
	Items            []entity.ExpenseItem
	PermittedActions []workflow.Trigger
}

// ExpenseService manages report creation, submission and retrieval for
// employees.
type ExpenseService interface {
	CreateReport(ctx context.Context, actor Actor, input CreateReportInput) (*entity.ExpenseReport, error)
	SubmitReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*entity.ExpenseReport, error)
	GetReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*ReportDetail, error)
}

type expenseService struct {
	reportRepo  port.ReportRepository
	itemRepo    port.ItemRepository
	receiptRepo port.ReceiptRepository
	txManager   port.TransactionManager
	rules       ReceiptRules
	events      EventPublisher
	logger      Logger
}

// NewExpenseService creates a new expense service instance.
func NewExpenseService(
	reportRepo port.ReportRepository,
	itemRepo port.ItemRepository,
	receiptRepo port.ReceiptRepository,
	txManager port.TransactionManager,
	rules ReceiptRules,
	events EventPublisher,
	logger Logger,
) ExpenseService {
	return &expenseService{
		reportRepo:  reportRepo,
		itemRepo:    itemRepo,
		receiptRepo: receiptRepo,
		txManager:   txManager,
		rules:       rules,
		events:      events,
		logger:      logger,
	}
}

// CreateReport validates the payload, computes totals and persists the report
// as a draft together with its items and receipt records, all in one
// transaction. Nothing is written when validation fails.
func (s *expenseService) CreateReport(ctx context.Context, actor Actor, input CreateReportInput) (*entity.ExpenseReport, error) {
	if err := s.validateReport(input); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	report := &entity.ExpenseReport{
		ID:                   uuid.New(),
		EmployeeID:           actor.EmployeeID,
		ReportingPeriodStart: input.ReportingPeriodStart,
		ReportingPeriodEnd:   input.ReportingPeriodEnd,
		Status:               entity.StatusDraft,
		Currency:             input.Currency,
		Version:              1,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	for _, item := range input.Items {
		report.TotalAmountCents += item.AmountCents
		if item.Reimbursable {
			report.TotalReimbursableCents += item.AmountCents
		}
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.reportRepo.Create(ctx, report); err != nil {
			return fmt.Errorf("create report: %w", err)
		}
		for _, itemInput := range input.Items {
			item := &entity.ExpenseItem{
				ID:                uuid.New(),
				ReportID:          report.ID,
				ExpenseDate:       itemInput.ExpenseDate,
				Category:          itemInput.Category,
				GLAccountID:       itemInput.GLAccountID,
				Description:       itemInput.Description,
				Attendees:         itemInput.Attendees,
				Location:          itemInput.Location,
				PaymentMethod:     itemInput.PaymentMethod,
				AmountCents:       itemInput.AmountCents,
				Reimbursable:      itemInput.Reimbursable,
				IsPolicyException: false,
			}
			if err := s.itemRepo.Create(ctx, item); err != nil {
				return fmt.Errorf("create expense item: %w", err)
			}
			for _, receiptInput := range itemInput.Receipts {
				receipt := &entity.Receipt{
					ID:            uuid.New(),
					ExpenseItemID: item.ID,
					FileKey:       receiptInput.FileKey,
					FileName:      receiptInput.FileName,
					MimeType:      receiptInput.MimeType,
					SizeBytes:     receiptInput.SizeBytes,
					UploadedBy:    actor.EmployeeID,
					CreatedAt:     now,
				}
				if err := s.receiptRepo.Create(ctx, receipt); err != nil {
					return fmt.Errorf("create receipt: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to create expense report", "employee_id", actor.EmployeeID, "error", err)
		return nil, Internal(err)
	}

	s.logger.Info("Expense report created", "report_id", report.ID, "employee_id", actor.EmployeeID, "items", len(input.Items))
	s.events.Publish(ctx, event.NewEvent(event.TypeReportCreated, report.ID, actor.EmployeeID, map[string]interface{}{
		"item_count":         len(input.Items),
		"total_amount_cents": report.TotalAmountCents,
	}))
	return report, nil
}

// SubmitReport moves an owned draft report to submitted. The transition is a
// single conditional update so concurrent submissions cannot both succeed.
func (s *expenseService) SubmitReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*entity.ExpenseReport, error) {
	ownerID := actor.EmployeeID
	moved, err := s.reportRepo.TransitionStatus(ctx, reportID, entity.StatusDraft, entity.StatusSubmitted, &ownerID)
	if err != nil {
		s.logger.Error("Failed to submit report", "report_id", reportID, "error", err)
		return nil, Internal(err)
	}
	if !moved {
		// The row either does not exist for this owner or is no longer a
		// draft. An existence probe tells the two apart.
		exists, err := s.reportRepo.Exists(ctx, reportID, &ownerID)
		if err != nil {
			return nil, Internal(err)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, Internal(err)
	}
	if report == nil {
		return nil, ErrNotFound
	}
	s.logger.Info("Expense report submitted", "report_id", reportID, "employee_id", actor.EmployeeID)
	s.events.Publish(ctx, event.NewEvent(event.TypeReportSubmitted, reportID, actor.EmployeeID, nil))
	return report, nil
}

// GetReport returns a report with its items for the owner or a reviewer.
func (s *expenseService) GetReport(ctx context.Context, actor Actor, reportID uuid.UUID) (*ReportDetail, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
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

	lifecycle, err := workflow.NewReportLifecycle(report.Status)
	if err != nil {
		return nil, Internal(err)
	}
	return &ReportDetail{
		Report:           *report,
		Items:            items,
		PermittedActions: lifecycle.PermittedTriggers(),
	}, nil
}

func (s *expenseService) validateReport(input CreateReportInput) error {
	verr := &ValidationError{}
	if strings.TrimSpace(input.Currency) == "" {
		verr.Add("currency", "currency is required")
	}
	if input.ReportingPeriodEnd.Before(input.ReportingPeriodStart) {
		verr.Add("reporting_period_end", "reporting period end must not precede its start")
	}
	for i, item := range input.Items {
		prefix := fmt.Sprintf("items[%d]", i)
		if item.AmountCents <= 0 {
			verr.Add(prefix+".amount_cents", "amount must be positive")
		}
		if item.ExpenseDate.Before(input.ReportingPeriodStart) || item.ExpenseDate.After(input.ReportingPeriodEnd) {
			verr.Add(prefix+".expense_date", "expense date must fall within the reporting period")
		}
		if s.rules.MaxFilesPerItem > 0 && len(item.Receipts) > s.rules.MaxFilesPerItem {
			verr.Add(prefix+".receipts", fmt.Sprintf("at most %d receipts per item", s.rules.MaxFilesPerItem))
		}
		for j, receipt := range item.Receipts {
			rprefix := fmt.Sprintf("%s.receipts[%d]", prefix, j)
			if receipt.SizeBytes <= 0 {
				verr.Add(rprefix+".size_bytes", "declared size must be positive")
			} else if s.rules.MaxSizeBytes > 0 && receipt.SizeBytes > s.rules.MaxSizeBytes {
				verr.Add(rprefix+".size_bytes", fmt.Sprintf("declared size exceeds limit of %d bytes", s.rules.MaxSizeBytes))
			}
			if strings.TrimSpace(receipt.MimeType) == "" {
				verr.Add(rprefix+".mime_type", "mime type is required")
			}
			if msg := checkFileKey(receipt.FileKey); msg != "" {
				verr.Add(rprefix+".file_key", msg)
			}
		}
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

// checkFileKey rejects keys that could escape the storage root. Keys are
// relative, slash-separated paths with no empty, "." or ".." components.
func checkFileKey(key string) string {
	if key == "" {
		return "file key is required"
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "file key must be a relative slash-separated path"
	}
	for _, component := range strings.Split(key, "/") {
		switch component {
		case "", ".", "..":
			return "file key contains an invalid path component"
		}
	}
	return ""
}
