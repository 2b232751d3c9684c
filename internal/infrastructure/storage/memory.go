package storage

import (
	"context"
	"sync"

	"github.com/garyjia/expense-approval/internal/application/port"
)

// MemoryStorage keeps receipt files in process memory. Used by tests and
// local development where no durable storage is configured.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStorage creates an empty in-memory backend
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

// Put stores data under key
func (s *MemoryStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	sanitized, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[sanitized] = buf
	return nil
}

// Delete removes the object stored under key
func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	sanitized, err := sanitizeKey(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, sanitized)
	return nil
}

// PresignedURL returns a synthetic URL for the stored object
func (s *MemoryStorage) PresignedURL(ctx context.Context, key string) (string, error) {
	sanitized, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return "memory://" + sanitized, nil
}

// Get returns the stored bytes and whether the key exists
func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Verify interface compliance
var _ port.StorageBackend = (*MemoryStorage)(nil)
