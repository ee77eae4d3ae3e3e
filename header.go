package rle

import "encoding/binary"

// PPDUKind classifies a PPDU from its Start/End header bits (spec.md §3).
type PPDUKind uint8

const (
	// Complete carries an entire ALPDU in a single PPDU (S=1,E=1).
	Complete PPDUKind = iota
	// Start carries the first fragment of an ALPDU (S=1,E=0).
	Start
	// Cont carries a middle fragment of an ALPDU (S=0,E=0).
	Cont
	// End carries the last fragment of an ALPDU (S=0,E=1).
	End
)

func (k PPDUKind) String() string {
	switch k {
	case Complete:
		return "COMPLETE"
	case Start:
		return "START"
	case Cont:
		return "CONT"
	case End:
		return "END"
	default:
		return "UNKNOWN"
	}
}

// labelType values carried by a COMPLETE PPDU's LT_T_FID field (spec.md §3).
type labelType uint8

const (
	labelTypeLegacy    labelType = 0 // ptype header present (compressed or uncompressed, per Config)
	labelTypeReserved  labelType = 1 // explicit payload header map; never produced
	labelTypeOmitted   labelType = 2 // ptype header omitted, inferred from Config.ImplicitProtocolType
	labelTypeSignaling labelType = 3 // signaling SDU, no ptype header
)

const (
	mainHeaderSize = 2 // S, E, LENGTH, LT_T_FID
	startContSize  = 2 // USE_CRC, frag_id, total_length
	startHeaderSize = mainHeaderSize + startContSize

	maxPPDULength = 1<<11 - 1 // 11-bit LENGTH field
	maxTotalLen   = 1<<12 - 1 // 12-bit total_length field
	maxFragID     = 8         // frag_id is a 3-bit field, 0..7
)

// ppduHeader holds a decoded 2-byte (or 4-byte, for START) PPDU header.
type ppduHeader struct {
	kind      PPDUKind
	length    int // payload byte count, excludes header bytes
	labelType labelType // valid only when kind == Complete
	fragID    uint8     // valid for Start, Cont, End
	useCRC    bool      // valid only when kind == Start
	totalLen  int       // valid only when kind == Start
}

// marshalMainHeader packs the 2-byte S/E/LENGTH/LT_T_FID word. fid3 is
// either the label type (COMPLETE) or the frag_id (fragments).
func marshalMainHeader(buf []byte, start, end bool, length int, fid3 uint8) {
	var word uint16
	if start {
		word |= 1 << 15
	}
	if end {
		word |= 1 << 14
	}
	word |= uint16(length&maxPPDULength) << 3
	word |= uint16(fid3 & 0x7)
	binary.BigEndian.PutUint16(buf, word)
}

// marshalStartCont packs the START fragment's additional 2-byte continuation
// header: USE_CRC(1) | frag_id(3) | total_length(12).
func marshalStartCont(buf []byte, useCRC bool, fragID uint8, totalLen int) {
	var word uint16
	if useCRC {
		word |= 1 << 15
	}
	word |= uint16(fragID&0x7) << 12
	word |= uint16(totalLen & maxTotalLen)
	binary.BigEndian.PutUint16(buf, word)
}

// unmarshalHeader parses a PPDU header from buf, returning the decoded
// header and the number of header bytes consumed (2, or 4 for START).
func unmarshalHeader(buf []byte) (ppduHeader, int, error) {
	if len(buf) < mainHeaderSize {
		return ppduHeader{}, 0, ErrInvalidPPDU
	}

	word := binary.BigEndian.Uint16(buf)
	start := word&(1<<15) != 0
	end := word&(1<<14) != 0
	length := int((word >> 3) & maxPPDULength)
	fid3 := uint8(word & 0x7)

	var h ppduHeader
	h.length = length

	switch {
	case start && end:
		h.kind = Complete
		h.labelType = labelType(fid3)

		return h, mainHeaderSize, nil
	case start && !end:
		h.kind = Start
		if len(buf) < startHeaderSize {
			return ppduHeader{}, 0, ErrInvalidPPDU
		}
		cont := binary.BigEndian.Uint16(buf[mainHeaderSize:])
		h.useCRC = cont&(1<<15) != 0
		h.fragID = uint8((cont >> 12) & 0x7)
		h.totalLen = int(cont & maxTotalLen)

		return h, startHeaderSize, nil
	case !start && !end:
		h.kind = Cont
		h.fragID = fid3

		return h, mainHeaderSize, nil
	default: // !start && end
		h.kind = End
		h.fragID = fid3

		return h, mainHeaderSize, nil
	}
}

// headerSizeFor returns the on-wire header size for a given kind, matching
// the public HeaderSize entry point of spec.md §6's get_header_size.
func headerSizeFor(kind PPDUKind) int {
	if kind == Start {
		return startHeaderSize
	}

	return mainHeaderSize
}

// HeaderSize returns the PPDU header size in bytes for the given kind under
// cfg. It is non-deterministic only in the sense that a whole "traffic
// FPDU" mixes kinds; called per-PPDU, as here, it is always exact. cfg is
// accepted for interface symmetry with the rest of the public API and to
// leave room for a future label-size-dependent encoding; today it plays no
// part in the computation.
func HeaderSize(cfg Config, kind PPDUKind) (int, error) {
	if kind > End {
		return 0, ErrInvalidPPDU
	}

	return headerSizeFor(kind), nil
}
