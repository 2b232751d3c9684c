package excelexport

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/domain/entity"
)

func TestExportBatch_WritesJournalWorkbook(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, zap.NewNop())
	require.NoError(t, err)

	batch := &entity.NetSuiteBatch{
		ID:             uuid.New(),
		BatchReference: "BATCH-2024-03",
		FinalizedBy:    uuid.New(),
		FinalizedAt:    time.Now().UTC(),
		Status:         entity.BatchStatusPending,
	}
	reportID := uuid.New()
	lines := []entity.JournalLine{
		{ID: uuid.New(), BatchID: batch.ID, ReportID: reportID, LineNumber: 1, GLAccount: "EXPENSES", AmountCents: 4500},
		{ID: uuid.New(), BatchID: batch.ID, ReportID: uuid.New(), LineNumber: 2, GLAccount: "EXPENSES", AmountCents: 1200},
	}

	response, err := exporter.ExportBatch(context.Background(), batch, lines)
	require.NoError(t, err)
	require.True(t, response.Succeeded)
	require.NotNil(t, response.Reference)

	f, err := excelize.OpenFile(*response.Reference)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "C1")
	require.NoError(t, err)
	assert.Equal(t, "GL Account", header)

	gotReport, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, reportID.String(), gotReport)

	gotAmount, err := f.GetCellValue(sheetName, "D3")
	require.NoError(t, err)
	assert.Equal(t, "1200", gotAmount)
}

func TestNewExporter_CreatesOutputDir(t *testing.T) {
	dir := t.TempDir() + "/nested/exports"
	_, err := NewExporter(dir, zap.NewNop())
	assert.NoError(t, err)
	assert.DirExists(t, dir)
}
