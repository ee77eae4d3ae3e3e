package rle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigValidateRejectsNoProtection(t *testing.T) {
	err := (&Config{}).Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigValidateRejectsExplicitPayloadHeaderMap(t *testing.T) {
	cfg := &Config{AllowALPDUCRC: true, UseExplicitPayloadHeaderMap: true}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestConfigValidateRejectsOversizedLabel(t *testing.T) {
	cfg := &Config{AllowALPDUCRC: true, ImplicitPPDULabelSize: 16}
	require.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
}

func TestConfigValidateAccepts(t *testing.T) {
	cfg := &Config{AllowALPDUSequenceNumber: true}
	require.NoError(t, cfg.Validate())
}

func TestPtypeIsOmissibleSignaling(t *testing.T) {
	cfg := &Config{AllowPtypeOmission: true, ImplicitProtocolType: compressedIPv4}
	require.True(t, cfg.ptypeIsOmissible(ProtoSignaling, nil))
}

func TestPtypeIsOmissibleIPVersionMatch(t *testing.T) {
	cfg := &Config{AllowPtypeOmission: true, ImplicitProtocolType: compressedIPv4}
	sdu := []byte{0x45, 0, 0, 0}
	require.True(t, cfg.ptypeIsOmissible(ProtoIPv4, sdu))
	require.False(t, cfg.ptypeIsOmissible(ProtoIPv6, sdu))
}

func TestPtypeIsOmissibleDisabled(t *testing.T) {
	cfg := &Config{ImplicitProtocolType: compressedIPv4}
	require.False(t, cfg.ptypeIsOmissible(ProtoIPv4, []byte{0x45}))
}
