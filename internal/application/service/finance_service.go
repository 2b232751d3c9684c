package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
	"github.com/garyjia/expense-approval/internal/domain/event"
)

const (
	// glAccountExpenses is the placeholder GL account journal lines post to.
	glAccountExpenses = "EXPENSES"

	// recentBatchLimit caps how many batches the review listing returns.
	recentBatchLimit = 20
)

// FinalizeInput names the reports to post and the batch reference recorded
// with them.
type FinalizeInput struct {
	ReportIDs      []uuid.UUID
	BatchReference string
}

// FinanceService posts finalized reports to the external accounting system.
type FinanceService interface {
	FinalizeReports(ctx context.Context, actor Actor, input FinalizeInput) (*entity.NetSuiteBatch, error)
	RecentBatches(ctx context.Context, actor Actor) ([]port.BatchSummary, error)
}

type financeService struct {
	reportRepo port.ReportRepository
	batchRepo  port.BatchRepository
	exporter   port.Exporter
	txManager  port.TransactionManager
	events     EventPublisher
	logger     Logger
}

// NewFinanceService creates a new finance service instance.
func NewFinanceService(
	reportRepo port.ReportRepository,
	batchRepo port.BatchRepository,
	exporter port.Exporter,
	txManager port.TransactionManager,
	events EventPublisher,
	logger Logger,
) FinanceService {
	return &financeService{
		reportRepo: reportRepo,
		batchRepo:  batchRepo,
		exporter:   exporter,
		txManager:  txManager,
		events:     events,
		logger:     logger,
	}
}

// FinalizeReports creates a batch with one journal line per report, marks each
// report finance_finalized and posts the batch through the export adapter,
// all inside one transaction. Any adapter failure (a transport error or a
// response with Succeeded=false) rolls everything back so a retry starts
// clean.
func (s *financeService) FinalizeReports(ctx context.Context, actor Actor, input FinalizeInput) (*entity.NetSuiteBatch, error) {
	if actor.Role != entity.RoleFinance {
		return nil, ErrForbidden
	}

	// The export call awaits a network round trip. A client disconnect must
	// not abandon the open transaction, so the pipeline runs detached from
	// request cancellation.
	ctx = context.WithoutCancel(ctx)

	batch := &entity.NetSuiteBatch{
		ID:             uuid.New(),
		BatchReference: input.BatchReference,
		FinalizedBy:    actor.EmployeeID,
		FinalizedAt:    time.Now().UTC(),
		Status:         entity.BatchStatusPending,
	}

	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.batchRepo.CreateBatch(ctx, batch); err != nil {
			return fmt.Errorf("create batch: %w", err)
		}

		lines := make([]entity.JournalLine, 0, len(input.ReportIDs))
		for i, reportID := range input.ReportIDs {
			// Unconditional update: finalization is the authoritative
			// terminal step and asserts the status regardless of the
			// report's prior state.
			if _, err := s.reportRepo.SetStatus(ctx, reportID, entity.StatusFinanceFinalized); err != nil {
				return fmt.Errorf("finalize report %s: %w", reportID, err)
			}
			line := entity.JournalLine{
				ID:         uuid.New(),
				BatchID:    batch.ID,
				ReportID:   reportID,
				LineNumber: i + 1,
				GLAccount:  glAccountExpenses,
				// TODO: compute line amounts once the GL mapping rules land.
				AmountCents: 0,
			}
			if err := s.batchRepo.CreateJournalLine(ctx, &line); err != nil {
				return fmt.Errorf("create journal line %d: %w", line.LineNumber, err)
			}
			lines = append(lines, line)
		}

		response, err := s.exporter.ExportBatch(ctx, batch, lines)
		if err != nil {
			return fmt.Errorf("export batch %s: %w", batch.BatchReference, err)
		}
		if !response.Succeeded {
			message := "no message"
			if response.Message != nil {
				message = *response.Message
			}
			return fmt.Errorf("export batch %s rejected: %s", batch.BatchReference, message)
		}

		responseJSON, err := json.Marshal(response)
		if err != nil {
			return fmt.Errorf("serialize export response: %w", err)
		}
		exportedAt := time.Now().UTC()
		if err := s.batchRepo.MarkExported(ctx, batch.ID, exportedAt, string(responseJSON)); err != nil {
			return fmt.Errorf("mark batch exported: %w", err)
		}

		batch.Status = entity.BatchStatusExported
		batch.ExportedAt = &exportedAt
		serialized := string(responseJSON)
		batch.NetSuiteResponse = &serialized
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to finalize reports",
			"batch_reference", input.BatchReference, "report_count", len(input.ReportIDs), "error", err)
		return nil, Internal(err)
	}

	s.logger.Info("Finalization batch exported",
		"batch_id", batch.ID, "batch_reference", batch.BatchReference, "report_count", len(input.ReportIDs))
	s.events.Publish(ctx, event.NewEvent(event.TypeBatchExported, batch.ID, actor.EmployeeID, map[string]interface{}{
		"batch_reference": batch.BatchReference,
		"report_count":    len(input.ReportIDs),
	}))
	return batch, nil
}

// RecentBatches returns the newest batches with per-batch report counts and
// amount totals for the finance review screen.
func (s *financeService) RecentBatches(ctx context.Context, actor Actor) ([]port.BatchSummary, error) {
	if actor.Role != entity.RoleFinance {
		return nil, ErrForbidden
	}
	summaries, err := s.batchRepo.RecentSummaries(ctx, recentBatchLimit)
	if err != nil {
		s.logger.Error("Failed to list recent batches", "error", err)
		return nil, Internal(err)
	}
	return summaries, nil
}
