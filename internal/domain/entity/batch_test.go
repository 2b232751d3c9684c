package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatchStatus(t *testing.T) {
	status, err := ParseBatchStatus("Exported")
	require.NoError(t, err)
	assert.Equal(t, BatchStatusExported, status)
	assert.True(t, status.IsValid())

	_, err = ParseBatchStatus("shipped")
	assert.Error(t, err)
	assert.False(t, BatchStatus("shipped").IsValid())
}
