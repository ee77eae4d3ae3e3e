package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalMainHeader(t *testing.T) {
	buf := make([]byte, mainHeaderSize)
	marshalMainHeader(buf, true, true, 42, 3)

	hdr, n, err := unmarshalHeader(buf)
	require.NoError(t, err)
	require.Equal(t, mainHeaderSize, n)
	require.Equal(t, Complete, hdr.kind)
	require.Equal(t, 42, hdr.length)
	require.Equal(t, labelType(3), hdr.labelType)
}

func TestMarshalUnmarshalStartHeader(t *testing.T) {
	buf := make([]byte, startHeaderSize)
	marshalMainHeader(buf, true, false, 100, 5)
	marshalStartCont(buf[mainHeaderSize:], true, 5, 4000)

	hdr, n, err := unmarshalHeader(buf)
	require.NoError(t, err)
	require.Equal(t, startHeaderSize, n)
	require.Equal(t, Start, hdr.kind)
	require.Equal(t, 100, hdr.length)
	require.Equal(t, uint8(5), hdr.fragID)
	require.True(t, hdr.useCRC)
	require.Equal(t, 4000, hdr.totalLen)
}

func TestUnmarshalHeaderTruncated(t *testing.T) {
	_, _, err := unmarshalHeader([]byte{0x80})
	require.ErrorIs(t, err, ErrInvalidPPDU)
}

func TestHeaderSize(t *testing.T) {
	var cfg Config

	n, err := HeaderSize(cfg, Complete)
	require.NoError(t, err)
	require.Equal(t, mainHeaderSize, n)

	n, err = HeaderSize(cfg, Cont)
	require.NoError(t, err)
	require.Equal(t, mainHeaderSize, n)

	n, err = HeaderSize(cfg, End)
	require.NoError(t, err)
	require.Equal(t, mainHeaderSize, n)

	n, err = HeaderSize(cfg, Start)
	require.NoError(t, err)
	require.Equal(t, startHeaderSize, n)
}
