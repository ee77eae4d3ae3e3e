package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransmitterQueueAccessors(t *testing.T) {
	cfg := Config{AllowALPDUCRC: true}
	tx, err := NewTransmitter(cfg)
	require.NoError(t, err)

	size, err := tx.QueueSize(2)
	require.NoError(t, err)
	require.Zero(t, size)
	require.NoError(t, tx.CheckFragIntegrity(2))

	sdu := SDU{ProtocolType: ProtoIPv4, Payload: make([]byte, 100)}
	require.NoError(t, tx.Encapsulate(sdu, 2))

	size, err = tx.QueueSize(2)
	require.NoError(t, err)
	require.Equal(t, 2+len(sdu.Payload)+4, size) // ptype + sdu + crc

	remaining, err := tx.RemainingALPDULength(2)
	require.NoError(t, err)
	require.Equal(t, size, remaining)

	out := make([]byte, 40)
	n, err := tx.Fragment(2, out)
	require.NoError(t, err)
	require.Greater(t, n, 0)

	remaining, err = tx.RemainingALPDULength(2)
	require.NoError(t, err)
	require.Less(t, remaining, size)

	// QueueSize counts the whole buffered ALPDU, including bytes already
	// emitted; it does not shrink as Fragment drains the buffer.
	size, err = tx.QueueSize(2)
	require.NoError(t, err)
	require.Equal(t, 2+len(sdu.Payload)+4, size)

	require.NoError(t, tx.CheckFragIntegrity(2))

	for !tx.Idle(2) {
		_, err := tx.Fragment(2, out)
		require.NoError(t, err)
	}

	require.NoError(t, tx.CheckFragIntegrity(2))
	size, err = tx.QueueSize(2)
	require.NoError(t, err)
	require.Zero(t, size)
}

func TestTransmitterAccessorsRejectFragIDRange(t *testing.T) {
	tx, err := NewTransmitter(Config{AllowALPDUCRC: true})
	require.NoError(t, err)

	_, err = tx.QueueSize(8)
	require.ErrorIs(t, err, ErrFragIDRange)

	_, err = tx.RemainingALPDULength(8)
	require.ErrorIs(t, err, ErrFragIDRange)

	require.ErrorIs(t, tx.CheckFragIntegrity(8), ErrFragIDRange)
}

func TestReceiverStatsCountsDeliveredSDUs(t *testing.T) {
	cfg := Config{AllowALPDUCRC: true}
	tx, err := NewTransmitter(cfg)
	require.NoError(t, err)
	rx, err := NewReceiver(cfg)
	require.NoError(t, err)

	sdu := SDU{ProtocolType: ProtoIPv4, Payload: []byte{1, 2, 3, 4}}
	require.NoError(t, tx.Encapsulate(sdu, 0))

	fpdu := make([]byte, 64)
	n, err := tx.Fragment(0, fpdu)
	require.NoError(t, err)

	got := make([]SDU, 1)
	_, err = rx.Decapsulate(fpdu[:n], got, nil)
	require.NoError(t, err)

	require.Equal(t, 1, rx.Stats().SDUsDelivered)
}
