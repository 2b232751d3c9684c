package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

func TestFinanceService_FinalizeReports_FinanceOnly(t *testing.T) {
	for _, role := range []entity.Role{entity.RoleEmployee, entity.RoleManager, entity.RoleAdmin} {
		t.Run(string(role), func(t *testing.T) {
			svc := NewFinanceService(&mockReportRepo{}, &mockBatchRepo{}, &mockExporter{}, &mockTxManager{}, &mockPublisher{}, &mockLogger{})

			_, err := svc.FinalizeReports(context.Background(), Actor{EmployeeID: uuid.New(), Role: role},
				FinalizeInput{ReportIDs: []uuid.UUID{uuid.New()}, BatchReference: "2024-05"})

			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestFinanceService_FinalizeReports_Success(t *testing.T) {
	reportIDs := []uuid.UUID{uuid.New(), uuid.New()}
	finance := uuid.New()

	var finalized []uuid.UUID
	reportRepo := &mockReportRepo{
		setStatusFunc: func(ctx context.Context, id uuid.UUID, to entity.ReportStatus) (bool, error) {
			assert.Equal(t, entity.StatusFinanceFinalized, to)
			finalized = append(finalized, id)
			return true, nil
		},
	}
	var insertedStatus entity.BatchStatus
	var createdLines []*entity.JournalLine
	markedExported := false
	batchRepo := &mockBatchRepo{
		createBatchFunc: func(ctx context.Context, batch *entity.NetSuiteBatch) error {
			insertedStatus = batch.Status
			return nil
		},
		createJournalLineFunc: func(ctx context.Context, line *entity.JournalLine) error {
			createdLines = append(createdLines, line)
			return nil
		},
		markExportedFunc: func(ctx context.Context, id uuid.UUID, exportedAt time.Time, response string) error {
			markedExported = true
			assert.Contains(t, response, `"succeeded":true`)
			return nil
		},
	}
	var exportedLines []entity.JournalLine
	exporter := &mockExporter{
		exportBatchFunc: func(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
			exportedLines = lines
			reference := "NS-1"
			return &port.ExportResponse{Succeeded: true, Reference: &reference}, nil
		},
	}
	svc := NewFinanceService(reportRepo, batchRepo, exporter, &mockTxManager{}, &mockPublisher{}, &mockLogger{})

	batch, err := svc.FinalizeReports(context.Background(), Actor{EmployeeID: finance, Role: entity.RoleFinance},
		FinalizeInput{ReportIDs: reportIDs, BatchReference: "2024-05"})

	require.NoError(t, err)
	assert.Equal(t, entity.BatchStatusPending, insertedStatus, "batch is inserted pending")
	assert.Equal(t, "2024-05", batch.BatchReference)
	assert.Equal(t, finance, batch.FinalizedBy)
	assert.Equal(t, entity.BatchStatusExported, batch.Status)
	require.NotNil(t, batch.ExportedAt)
	require.NotNil(t, batch.NetSuiteResponse)

	assert.Equal(t, reportIDs, finalized)
	require.Len(t, createdLines, 2)
	for i, line := range createdLines {
		assert.Equal(t, batch.ID, line.BatchID)
		assert.Equal(t, reportIDs[i], line.ReportID)
		assert.Equal(t, i+1, line.LineNumber)
		assert.Equal(t, "EXPENSES", line.GLAccount)
	}
	assert.Len(t, exportedLines, 2)
	assert.True(t, markedExported)
}

func TestFinanceService_FinalizeReports_AdapterFailureRollsBack(t *testing.T) {
	tests := []struct {
		name   string
		export func(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error)
	}{
		{
			name: "transport error",
			export: func(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
				return nil, errors.New("connection reset")
			},
		},
		{
			name: "rejected response",
			export: func(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
				message := "duplicate reference"
				return &port.ExportResponse{Succeeded: false, Message: &message}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markedExported := false
			batchRepo := &mockBatchRepo{
				markExportedFunc: func(ctx context.Context, id uuid.UUID, exportedAt time.Time, response string) error {
					markedExported = true
					return nil
				},
			}
			var txErr error
			txManager := &mockTxManager{
				withTransactionFunc: func(ctx context.Context, fn func(ctx context.Context) error) error {
					txErr = fn(ctx)
					return txErr
				},
			}
			svc := NewFinanceService(&mockReportRepo{}, batchRepo, &mockExporter{exportBatchFunc: tt.export}, txManager, &mockPublisher{}, &mockLogger{})

			_, err := svc.FinalizeReports(context.Background(), Actor{EmployeeID: uuid.New(), Role: entity.RoleFinance},
				FinalizeInput{ReportIDs: []uuid.UUID{uuid.New(), uuid.New()}, BatchReference: "2024-06"})

			var internal *InternalError
			assert.ErrorAs(t, err, &internal)
			assert.Error(t, txErr, "transaction callback must fail so every write rolls back")
			assert.False(t, markedExported)
		})
	}
}

func TestFinanceService_FinalizeReports_SurvivesCallerCancellation(t *testing.T) {
	exporter := &mockExporter{
		exportBatchFunc: func(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
			assert.NoError(t, ctx.Err(), "export must run detached from request cancellation")
			return &port.ExportResponse{Succeeded: true}, nil
		},
	}
	svc := NewFinanceService(&mockReportRepo{}, &mockBatchRepo{}, exporter, &mockTxManager{}, &mockPublisher{}, &mockLogger{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.FinalizeReports(ctx, Actor{EmployeeID: uuid.New(), Role: entity.RoleFinance},
		FinalizeInput{ReportIDs: []uuid.UUID{uuid.New()}, BatchReference: "2024-07"})

	assert.NoError(t, err)
}

func TestFinanceService_RecentBatches(t *testing.T) {
	svc := NewFinanceService(&mockReportRepo{}, &mockBatchRepo{}, &mockExporter{}, &mockTxManager{}, &mockPublisher{}, &mockLogger{})
	_, err := svc.RecentBatches(context.Background(), Actor{EmployeeID: uuid.New(), Role: entity.RoleManager})
	assert.ErrorIs(t, err, ErrForbidden)

	batchRepo := &mockBatchRepo{
		recentSummariesFunc: func(ctx context.Context, limit int) ([]port.BatchSummary, error) {
			assert.Equal(t, 20, limit)
			return []port.BatchSummary{
				{Batch: entity.NetSuiteBatch{ID: uuid.New(), Status: entity.BatchStatusExported}, ReportCount: 3, TotalAmountCents: 12_000},
			}, nil
		},
	}
	svc = NewFinanceService(&mockReportRepo{}, batchRepo, &mockExporter{}, &mockTxManager{}, &mockPublisher{}, &mockLogger{})

	summaries, err := svc.RecentBatches(context.Background(), Actor{EmployeeID: uuid.New(), Role: entity.RoleFinance})

	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 3, summaries[0].ReportCount)
}
