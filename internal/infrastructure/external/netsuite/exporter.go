// Package netsuite posts finalization batches to the accounting system.
package netsuite

import (
	"context"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// Exporter is the NetSuite export adapter. The real integration needs
// credentials that are not provisioned yet, so this implementation simulates
// a successful export.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates the stub exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// ExportBatch simulates posting the batch and reports success.
// TODO: replace with the SuiteTalk REST client once credentials are available.
func (e *Exporter) ExportBatch(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*port.ExportResponse, error) {
	e.logger.Info("NetSuite export stub invoked",
		zap.String("batch_reference", batch.BatchReference),
		zap.Int("line_count", len(lines)))

	reference := "STUB-REF"
	message := "Simulated export"
	return &port.ExportResponse{
		Succeeded: true,
		Reference: &reference,
		Message:   &message,
	}, nil
}

// Verify interface compliance
var _ port.Exporter = (*Exporter)(nil)
