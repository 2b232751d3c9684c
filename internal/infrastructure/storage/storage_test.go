package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "relative path", key: "receipts/user1.png", want: "receipts/user1.png"},
		{name: "current dir components collapse", key: "./receipts/./user1.png", want: "receipts/user1.png"},
		{name: "empty", key: "", wantErr: true},
		{name: "blank", key: "   ", wantErr: true},
		{name: "absolute", key: "/etc/passwd", wantErr: true},
		{name: "parent dir", key: "../secrets.txt", wantErr: true},
		{name: "nested parent dir", key: "receipts/../../secrets.txt", wantErr: true},
		{name: "backslash", key: "receipts\\user1.png", wantErr: true},
		{name: "only dots", key: "./.", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStorage_PutDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	backend, err := NewLocalStorage(root, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, backend.Put(ctx, "receipts/2024/lunch.pdf", []byte("pdf-bytes"), "application/pdf"))

	stored, err := os.ReadFile(filepath.Join(root, "receipts", "2024", "lunch.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("pdf-bytes"), stored)

	url, err := backend.PresignedURL(ctx, "receipts/2024/lunch.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/receipts/receipts/2024/lunch.pdf", url)

	require.NoError(t, backend.Delete(ctx, "receipts/2024/lunch.pdf"))
	_, err = os.Stat(filepath.Join(root, "receipts", "2024", "lunch.pdf"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, backend.Delete(ctx, "receipts/2024/lunch.pdf"), "deleting a missing key is not an error")
	assert.Error(t, backend.Put(ctx, "../outside.txt", []byte("x"), "text/plain"))
}

func TestMemoryStorage_PutDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryStorage()

	require.NoError(t, backend.Put(ctx, "receipts/a.png", []byte{1, 2, 3}, "image/png"))

	data, ok := backend.Get("receipts/a.png")
	assert.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)

	url, err := backend.PresignedURL(ctx, "receipts/a.png")
	require.NoError(t, err)
	assert.Equal(t, "memory://receipts/a.png", url)

	require.NoError(t, backend.Delete(ctx, "receipts/a.png"))
	_, ok = backend.Get("receipts/a.png")
	assert.False(t, ok)

	assert.Error(t, backend.Put(ctx, "/abs.png", nil, "image/png"))
}
