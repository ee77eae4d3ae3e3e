package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackInitAndPack(t *testing.T) {
	label := []byte{1, 2, 3}
	fpdu := make([]byte, 32)

	cur, err := PackInit(label, fpdu, 0)
	require.NoError(t, err)
	require.Equal(t, 3, cur)

	ppdu := []byte{0x80, 0x08, 'h', 'i'}
	cur, err = Pack(ppdu, label, fpdu, cur)
	require.NoError(t, err)
	require.Equal(t, 7, cur)
	require.Equal(t, label, fpdu[:3])
	require.Equal(t, ppdu, fpdu[3:7])

	Pad(fpdu, cur)
	for _, b := range fpdu[cur:] {
		require.Zero(t, b)
	}
}

func TestPackRejectsBadLabel(t *testing.T) {
	fpdu := make([]byte, 8)
	_, err := Pack([]byte{0, 0}, []byte{1, 2}, fpdu, 0)
	require.ErrorIs(t, err, ErrInvalidLabel)
}

func TestPackRejectsOversizedPPDU(t *testing.T) {
	fpdu := make([]byte, 2)
	_, err := Pack([]byte{0x80, 0x08, 1, 2}, nil, fpdu, 0)
	require.ErrorIs(t, err, ErrFPDUTooSmall)
}
