package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIDAllocatorAcquireRelease(t *testing.T) {
	var a idAllocator

	require.NoError(t, a.acquire(2))
	require.ErrorIs(t, a.acquire(2), ErrContextBusy)

	a.release(2)
	require.NoError(t, a.acquire(2))
}

func TestIDAllocatorRejectsOutOfRange(t *testing.T) {
	var a idAllocator
	require.ErrorIs(t, a.acquire(8), ErrFragIDRange)
}

func TestIDAllocatorAllocAny(t *testing.T) {
	var a idAllocator
	for i := 0; i < maxFragID; i++ {
		id, ok := a.allocAny()
		require.True(t, ok)
		require.Equal(t, uint8(i), id)
	}

	_, ok := a.allocAny()
	require.False(t, ok)
}
