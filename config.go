package rle

// Config is the set of flags consumed when a Transmitter or Receiver is
// created (spec.md §4.1). A zero Config is never valid: at least one of
// AllowALPDUCRC / AllowALPDUSequenceNumber must be set, see Validate.
type Config struct {
	// AllowPtypeOmission permits eliding the protocol-type header when the
	// peer's implicit type matches the SDU being sent (§4.1, ptypeIsOmissible).
	AllowPtypeOmission bool

	// UseCompressedPtype selects the 1-byte compressed protocol-type
	// encoding over the 2-byte uncompressed Ethertype, for COMPLETE PPDUs
	// that carry an explicit (non-omitted) protocol-type header. Fragmented
	// ALPDUs always carry the uncompressed 2-byte form.
	UseCompressedPtype bool

	// AllowALPDUCRC enables the 4-byte CRC-32 trailer.
	AllowALPDUCRC bool
	// AllowALPDUSequenceNumber enables the 1-byte sequence-number trailer.
	AllowALPDUSequenceNumber bool

	// UseExplicitPayloadHeaderMap must always be false: the explicit
	// payload-header-map mode is reserved and rejected by Validate
	// (spec.md §1 Non-goals).
	UseExplicitPayloadHeaderMap bool

	// ImplicitProtocolType is the compressed protocol-type code (§4.1
	// table) assumed when a protocol-type header is omitted.
	ImplicitProtocolType uint8

	// ImplicitPPDULabelSize, ImplicitPayloadLabelSize and
	// Type0ALPDULabelSize are legacy label-size fields, each bounded to
	// a 4-bit field (0..15).
	ImplicitPPDULabelSize  uint8
	ImplicitPayloadLabelSize uint8
	Type0ALPDULabelSize      uint8

	// CRC32 computes the CRC-32 trailer value (spec.md §6). Nil selects
	// the default IEEE 802.3 implementation backed by hash/crc32.
	CRC32 func([]byte) uint32
}

const maxLabelFieldSize = 15

// Validate checks a Config for internal consistency. It returns one of the
// sentinel ErrInvalidConfig-wrapped errors on failure; spec.md's "check"
// returning false-and-log becomes an idiomatic error return.
func (c *Config) Validate() error {
	if !c.AllowALPDUCRC && !c.AllowALPDUSequenceNumber {
		return wrapConfigErr("at least one of AllowALPDUCRC or AllowALPDUSequenceNumber must be set")
	}
	if c.UseExplicitPayloadHeaderMap {
		return wrapConfigErr("explicit payload header map mode is reserved and unsupported")
	}
	if c.ImplicitPPDULabelSize > maxLabelFieldSize {
		return wrapConfigErr("ImplicitPPDULabelSize exceeds 15")
	}
	if c.ImplicitPayloadLabelSize > maxLabelFieldSize {
		return wrapConfigErr("ImplicitPayloadLabelSize exceeds 15")
	}
	if c.Type0ALPDULabelSize > maxLabelFieldSize {
		return wrapConfigErr("Type0ALPDULabelSize exceeds 15")
	}

	return nil
}

func wrapConfigErr(reason string) error {
	return &configError{reason: reason}
}

type configError struct {
	reason string
}

func (e *configError) Error() string { return "rle: invalid configuration: " + e.reason }

func (e *configError) Unwrap() error { return ErrInvalidConfig }

// crc32Func returns the configured CRC-32 implementation, defaulting to the
// standard-library IEEE 802.3 implementation (see trailer.go).
func (c *Config) crc32Func() func([]byte) uint32 {
	if c.CRC32 != nil {
		return c.CRC32
	}

	return defaultCRC32
}

// ptypeIsOmissible implements spec.md §4.1's four-way omission test: (a)
// signaling sentinel, (b) implicit compressed-IP matching the SDU's IP
// version nibble, (c) implicit compressed-VLAN-without-ptype matching an
// Ethernet/VLAN/IPv4-or-IPv6 SDU, (d) decompress(implicit) == ptype.
func (c *Config) ptypeIsOmissible(ptype ProtocolType, sdu []byte) bool {
	if !c.AllowPtypeOmission {
		return false
	}

	if ptype == ProtoSignaling {
		return true
	}

	switch c.ImplicitProtocolType {
	case compressedIPv4:
		return ptype == ProtoIPv4 && len(sdu) > 0 && sdu[0]>>4 == 4
	case compressedIPv6:
		return ptype == ProtoIPv6 && len(sdu) > 0 && sdu[0]>>4 == 6
	case compressedVLAN:
		return ptype == ProtoVLAN && sduLooksLikeVLANIP(sdu)
	}

	implicit, ok := decompressProtocolType(c.ImplicitProtocolType)

	return ok && implicit == ptype
}

// sduLooksLikeVLANIP is a minimal Ethernet/VLAN parse: it reads the payload
// as a 2-byte 802.1Q TCI followed by the inner Ethertype, and checks that
// bytes 2..3 hold IPv4 or IPv6 (at least 5 bytes are required).
func sduLooksLikeVLANIP(sdu []byte) bool {
	const vlanTagSize = 4
	if len(sdu) < vlanTagSize+1 {
		return false
	}

	inner := ProtocolType(uint16(sdu[2])<<8 | uint16(sdu[3]))

	return inner == ProtoIPv4 || inner == ProtoIPv6
}
