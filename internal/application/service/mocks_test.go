package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/event"
)

// Mock repositories

type mockReportRepo struct {
	createFunc           func(ctx context.Context, report *entity.ExpenseReport) error
	getByIDFunc          func(ctx context.Context, id uuid.UUID) (*entity.ExpenseReport, error)
	transitionStatusFunc func(ctx context.Context, id uuid.UUID, from, to entity.ReportStatus, ownerID *uuid.UUID) (bool, error)
	setStatusFunc        func(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error)
	existsFunc           func(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (bool, error)
	listSubmittedFunc    func(ctx context.Context) ([]port.SubmittedReport, error)
}

func (m *mockReportRepo) Create(ctx context.Context, report *entity.ExpenseReport) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, report)
	}
	return nil
}

func (m *mockReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.ExpenseReport, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReportRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.ReportStatus, ownerID *uuid.UUID) (bool, error) {
	if m.transitionStatusFunc != nil {
		return m.transitionStatusFunc(ctx, id, from, to, ownerID)
	}
	return true, nil
}

func (m *mockReportRepo) SetStatus(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, to)
	}
	return true, nil
}

func (m *mockReportRepo) Exists(ctx context.Context, id uuid.UUID, ownerID *uuid.UUID) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id, ownerID)
	}
	return false, nil
}

func (m *mockReportRepo) ListSubmitted(ctx context.Context) ([]port.SubmittedReport, error) {
	if m.listSubmittedFunc != nil {
		return m.listSubmittedFunc(ctx)
	}
	return []port.SubmittedReport{}, nil
}

type mockItemRepo struct {
	createFunc          func(ctx context.Context, item *entity.ExpenseItem) error
	getByReportIDFunc   func(ctx context.Context, reportID uuid.UUID) ([]entity.ExpenseItem, error)
	listByReportIDsFunc func(ctx context.Context, reportIDs []uuid.UUID) ([]entity.ExpenseItem, error)
}

func (m *mockItemRepo) Create(ctx context.Context, item *entity.ExpenseItem) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, item)
	}
	return nil
}

func (m *mockItemRepo) GetByReportID(ctx context.Context, reportID uuid.UUID) ([]entity.ExpenseItem, error) {
	if m.getByReportIDFunc != nil {
		return m.getByReportIDFunc(ctx, reportID)
	}
	return []entity.ExpenseItem{}, nil
}

func (m *mockItemRepo) ListByReportIDs(ctx context.Context, reportIDs []uuid.UUID) ([]entity.ExpenseItem, error) {
	if m.listByReportIDsFunc != nil {
		return m.listByReportIDsFunc(ctx, reportIDs)
	}
	return []entity.ExpenseItem{}, nil
}

type mockReceiptRepo struct {
	createFunc func(ctx context.Context, receipt *entity.Receipt) error
}

func (m *mockReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, receipt)
	}
	return nil
}

func (m *mockReceiptRepo) GetByItemID(ctx context.Context, itemID uuid.UUID) ([]entity.Receipt, error) {
	return []entity.Receipt{}, nil
}

type mockApprovalRepo struct {
	createFunc func(ctx context.Context, approval *entity.Approval) error
}

func (m *mockApprovalRepo) Create(ctx context.Context, approval *entity.Approval) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, approval)
	}
	return nil
}

func (m *mockApprovalRepo) GetByReportID(ctx context.Context, reportID uuid.UUID) ([]entity.Approval, error) {
	return []entity.Approval{}, nil
}

type mockCapRepo struct {
	listByCategoriesFunc func(ctx context.Context, categories []entity.ExpenseCategory) ([]entity.PolicyCap, error)
}

func (m *mockCapRepo) ListByCategories(ctx context.Context, categories []entity.ExpenseCategory) ([]entity.PolicyCap, error) {
	if m.listByCategoriesFunc != nil {
		return m.listByCategoriesFunc(ctx, categories)
	}
	return []entity.PolicyCap{}, nil
}

type mockBatchRepo struct {
	createBatchFunc       func(ctx context.Context, batch *entity.NetSuiteBatch) error
	createJournalLineFunc func(ctx context.Context, line *entity.JournalLine) error
	markExportedFunc      func(ctx context.Context, id uuid.UUID, exportedAt time.Time, response string) error
	recentSummariesFunc   func(ctx context.Context, limit int) ([]port.BatchSummary, error)
}

func (m *mockBatchRepo) CreateBatch(ctx context.Context, batch *entity.NetSuiteBatch) error {
	if m.createBatchFunc != nil {
		return m.createBatchFunc(ctx, batch)
	}
	return nil
}

func (m *mockBatchRepo) CreateJournalLine(ctx context.Context, line *entity.JournalLine) error {
	if m.createJournalLineFunc != nil {
		return m.createJournalLineFunc(ctx, line)
	}
	return nil
}

func (m *mockBatchRepo) MarkExported(ctx context.Context, id uuid.UUID, exportedAt time.Time, response string) error {
	if m.markExportedFunc != nil {
		return m.markExportedFunc(ctx, id, exportedAt, response)
	}
	return nil
}

func (m *mockBatchRepo) RecentSummaries(ctx context.Context, limit int) ([]port.BatchSummary, error) {
	if m.recentSummariesFunc != nil {
		return m.recentSummariesFunc(ctx, limit)
	}
	return []port.BatchSummary{}, nil
}

type mockExporter struct {
	exportBatchFunc func(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error)
}

func (m *mockExporter) ExportBatch(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
	if m.exportBatchFunc != nil {
		return m.exportBatchFunc(ctx, batch, lines)
	}
	reference := "REF-1"
	return &port.ExportResponse{Succeeded: true, Reference: &reference}, nil
}

type mockTxManager struct {
	withTransactionFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.withTransactionFunc != nil {
		return m.withTransactionFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}

type mockPublisher struct {
	published []*event.Event
}

func (m *mockPublisher) Publish(ctx context.Context, evt *event.Event) {
	m.published = append(m.published, evt)
}
