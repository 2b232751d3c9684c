package port

import (
	"context"

	"github.com/garyjia/expense-approval/internal/domain/entity"
)

// ExportResponse is the outcome reported by the accounting export adapter.
type ExportResponse struct {
	Succeeded bool    `json:"succeeded"`
	Reference *string `json:"reference,omitempty"`
	Message   *string `json:"message,omitempty"`
}

// Exporter posts a finalized batch to the external accounting system.
// A transport error is treated the same as Succeeded=false by callers: the
// enclosing transaction must be rolled back.
type Exporter interface {
	ExportBatch(ctx context.Context, batch *entity.NetSuiteBatch, lines []entity.JournalLine) (*ExportResponse, error)
}

// StorageBackend stores receipt files under opaque keys. Implementations
// must reject path traversal and absolute keys.
type StorageBackend interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	PresignedURL(ctx context.Context, key string) (string, error)
}
