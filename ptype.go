package rle

// ProtocolType identifies the upper-layer protocol carried in an SDU, using
// the Ethertype values of the DVB-RCS2 RLE protocol-type registry
// (ETSI TS 101 545-2 table 7.3), plus the RLE signaling sentinel.

// ProtocolType is the 16-bit tag carried (explicitly, compressed, or
// omitted) alongside an SDU.
type ProtocolType uint16

// Known protocol types. These are the values an ALPDU's protocol-type
// header carries when it is present in its uncompressed, 2-byte form.
const (
	// ProtoIPv4 tags an IPv4 datagram.
	ProtoIPv4 ProtocolType = 0x0800
	// ProtoARP tags an Address Resolution Protocol frame.
	ProtoARP ProtocolType = 0x0806
	// ProtoIPv6 tags an IPv6 datagram.
	ProtoIPv6 ProtocolType = 0x86DD
	// ProtoVLAN tags an 802.1Q VLAN-tagged Ethernet frame.
	ProtoVLAN ProtocolType = 0x8100
	// ProtoQinQ tags an 802.1ad (Q-in-Q) double VLAN-tagged Ethernet frame.
	ProtoQinQ ProtocolType = 0x88A8
	// ProtoSignaling tags an RLE internal signaling frame. A signaling SDU
	// sent as a COMPLETE PPDU uses the signaling label type (§4.1) and
	// carries no protocol-type header; a fragmented signaling ALPDU carries
	// the canonical 2-byte header like any other.
	ProtoSignaling ProtocolType = 0x0082
)

// compressed-to-uncompressed protocol type table (spec.md §4.1). The 1-byte
// code is what travels on the wire when the label type is legacy (0) and
// the configuration selects compressed encoding.
const (
	compressedIPv4 uint8 = 0x0d
	compressedIPv6 uint8 = 0x11
	compressedARP  uint8 = 0x0e
	compressedVLAN uint8 = 0x0f
)

var compressedToProtocolType = map[uint8]ProtocolType{
	compressedIPv4: ProtoIPv4,
	compressedIPv6: ProtoIPv6,
	compressedARP:  ProtoARP,
	compressedVLAN: ProtoVLAN,
}

var protocolTypeToCompressed = map[ProtocolType]uint8{
	ProtoIPv4: compressedIPv4,
	ProtoIPv6: compressedIPv6,
	ProtoARP:  compressedARP,
	ProtoVLAN: compressedVLAN,
}

// decompressProtocolType maps a 1-byte compressed code to its uncompressed
// Ethertype. ok is false for a code absent from the table (reserved/unassigned).
func decompressProtocolType(code uint8) (ptype ProtocolType, ok bool) {
	ptype, ok = compressedToProtocolType[code]

	return ptype, ok
}

// compressProtocolType maps an Ethertype to its 1-byte compressed code. ok is
// false when ptype has no compressed representation.
func compressProtocolType(ptype ProtocolType) (code uint8, ok bool) {
	code, ok = protocolTypeToCompressed[ptype]

	return code, ok
}
