// Package excelexport writes finalization batches to journal workbooks for
// manual import into the accounting system.
package excelexport

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

const sheetName = "Journal"

// Exporter writes one .xlsx workbook per batch. It stands in for the live
// accounting integration in deployments that import journals by hand.
type Exporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewExporter creates an exporter writing workbooks under outputDir
func NewExporter(outputDir string, logger *zap.Logger) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	return &Exporter{outputDir: outputDir, logger: logger}, nil
}

// ExportBatch writes the batch's journal lines to a workbook and reports
// success with the file path as the export reference.
func (e *Exporter) ExportBatch(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name journal sheet: %w", err)
	}

	headers := []string{"Line", "Report ID", "GL Account", "Amount (cents)", "Memo"}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, line := range lines {
		row := i + 2
		memo := ""
		if line.Memo != nil {
			memo = *line.Memo
		}
		values := []interface{}{line.LineNumber, line.ReportID.String(), line.GLAccount, line.AmountCents, memo}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	// The batch ID names the file; references are not trusted as filenames.
	outPath := filepath.Join(e.outputDir, fmt.Sprintf("batch-%s.xlsx", batch.ID))
	if err := f.SaveAs(outPath); err != nil {
		return nil, fmt.Errorf("failed to write journal workbook: %w", err)
	}

	e.logger.Info("Journal workbook written",
		zap.String("batch_reference", batch.BatchReference),
		zap.String("path", outPath),
		zap.Int("line_count", len(lines)))

	message := fmt.Sprintf("Journal workbook written with %d lines", len(lines))
	return &port.ExportResponse{
		Succeeded: true,
		Reference: &outPath,
		Message:   &message,
	}, nil
}

// Verify interface compliance
var _ port.Exporter = (*Exporter)(nil)
