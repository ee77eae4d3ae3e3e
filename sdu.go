package rle

// MaxSDUSize is the largest Service Data Unit this implementation accepts
// (spec.md §3: SDU ≤ 4088 bytes).
const MaxSDUSize = 4088

// SDU is a Service Data Unit: a finite byte sequence plus the protocol type
// it should be tagged with on the wire.
type SDU struct {
	ProtocolType ProtocolType
	Payload      []byte
}
