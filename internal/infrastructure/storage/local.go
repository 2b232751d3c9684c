package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/garyjia/expense-approval/internal/application/port"
)

// LocalStorage writes receipt files to a directory on disk.
type LocalStorage struct {
	root   string
	logger *zap.Logger
}

// NewLocalStorage creates a local storage backend rooted at dir
func NewLocalStorage(dir string, logger *zap.Logger) (*LocalStorage, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &LocalStorage{root: root, logger: logger}, nil
}

// Put stores data under key, creating intermediate directories
func (s *LocalStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	sanitized, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	target := filepath.Join(s.root, filepath.FromSlash(sanitized))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt file: %w", err)
	}

	s.logger.Info("Receipt stored", zap.String("key", sanitized), zap.Int("size_bytes", len(data)))
	return nil
}

// Delete removes the file stored under key. Deleting a missing key is not an
// error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	sanitized, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	target := filepath.Join(s.root, filepath.FromSlash(sanitized))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete receipt file: %w", err)
	}
	return nil
}

// PresignedURL returns the serving path for a stored receipt
func (s *LocalStorage) PresignedURL(ctx context.Context, key string) (string, error) {
	sanitized, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return path.Join("/receipts", sanitized), nil
}

// Verify interface compliance
var _ port.StorageBackend = (*LocalStorage)(nil)
