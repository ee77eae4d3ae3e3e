package rle

// minBurstSize is the absolute floor for any Fragment call: a 2-byte main
// header plus at least one payload byte (spec.md §4.6 rule 2).
const minBurstSize = 3

// fragment emits the next PPDU for ctx into out, sized to burst_size =
// len(out). It returns the number of bytes written (header + payload).
//
// State machine (spec.md §4.6):
//
//	FILLED --fits in one PPDU--> IDLE, emits COMPLETE
//	FILLED --doesn't fit-->      DRAINING, emits START
//	DRAINING --fits rest-->      IDLE, emits END
//	DRAINING --doesn't fit-->    DRAINING, emits CONT
func fragment(cfg *Config, fragID uint8, ctx *fragmentContext, out []byte) (int, error) {
	if ctx == nil || ctx.idle() {
		return 0, ErrContextIsNil
	}
	if len(out) < minBurstSize {
		return 0, ErrBurstTooSmall
	}

	first := !ctx.buf.started()

	if first {
		if n, ok := tryComplete(cfg, ctx, out); ok {
			return n, nil
		}

		return emitStart(fragID, ctx, out)
	}

	remaining := ctx.buf.remaining()
	if remaining <= len(out)-mainHeaderSize {
		return emitEnd(fragID, ctx, out, remaining)
	}

	return emitCont(fragID, ctx, out)
}

// tryComplete attempts to send the whole ALPDU as one COMPLETE PPDU, using
// whatever protocol-type encoding (omitted/compressed/uncompressed) the
// configuration allows. It only applies on the first Fragment call for ctx.
func tryComplete(cfg *Config, ctx *fragmentContext, out []byte) (int, bool) {
	lt, ptypeHeaderLen, ptypeBytes := completeEncoding(cfg, ctx)

	trailerOff := ctx.trailerOffset()
	trailerSize := ctx.buf.alpduEnd - trailerOff
	bodyLen := ptypeHeaderLen + ctx.sduLen + trailerSize

	if bodyLen > maxPPDULength || mainHeaderSize+bodyLen > len(out) {
		return 0, false
	}

	marshalMainHeader(out, true, true, bodyLen, uint8(lt))
	n := mainHeaderSize
	n += copy(out[n:], ptypeBytes)
	n += copy(out[n:], ctx.buf.data[2:2+ctx.sduLen])
	n += copy(out[n:], ctx.buf.data[trailerOff:ctx.buf.alpduEnd])

	ctx.bytesSent += bodyLen
	ctx.ppdusSent++
	ctx.buf.reset()
	ctx.inUse = false

	return n, true
}

// completeEncoding picks the label type and ptype-header bytes a COMPLETE
// PPDU should carry for ctx's SDU (spec.md §4.1).
func completeEncoding(cfg *Config, ctx *fragmentContext) (labelType, int, []byte) {
	sdu := ctx.buf.data[2 : 2+ctx.sduLen]

	if ctx.ptype == ProtoSignaling {
		return labelTypeSignaling, 0, nil
	}

	if cfg.ptypeIsOmissible(ctx.ptype, sdu) {
		return labelTypeOmitted, 0, nil
	}

	if cfg.UseCompressedPtype {
		if code, ok := compressProtocolType(ctx.ptype); ok {
			return labelTypeLegacy, 1, []byte{code}
		}
	}

	return labelTypeLegacy, 2, ctx.buf.data[0:2]
}

func emitStart(fragID uint8, ctx *fragmentContext, out []byte) (int, error) {
	if len(out) < startHeaderSize+1 {
		return 0, ErrBurstTooSmall
	}

	length := len(out) - startHeaderSize
	remaining := ctx.buf.remaining()
	if length > remaining {
		length = remaining
	}

	leftover := remaining - length
	if err := checkTrailerSplit(ctx, leftover); err != nil {
		return 0, err
	}

	marshalMainHeader(out, true, false, length, fragID)
	marshalStartCont(out[mainHeaderSize:], ctx.protection == ProtectionCRC, fragID, remaining)
	n := startHeaderSize
	n += copy(out[n:], ctx.buf.slice(length))
	ctx.buf.advance(length)

	ctx.bytesSent += length
	ctx.ppdusSent++

	return n, nil
}

func emitCont(fragID uint8, ctx *fragmentContext, out []byte) (int, error) {
	if len(out) < mainHeaderSize+1 {
		return 0, ErrBurstTooSmall
	}

	length := len(out) - mainHeaderSize
	remaining := ctx.buf.remaining()
	if length > remaining {
		length = remaining
	}

	leftover := remaining - length
	if err := checkTrailerSplit(ctx, leftover); err != nil {
		return 0, err
	}

	marshalMainHeader(out, false, false, length, fragID)
	n := mainHeaderSize
	n += copy(out[n:], ctx.buf.slice(length))
	ctx.buf.advance(length)

	ctx.bytesSent += length
	ctx.ppdusSent++

	return n, nil
}

func emitEnd(fragID uint8, ctx *fragmentContext, out []byte, length int) (int, error) {
	if mainHeaderSize+length > len(out) {
		return 0, ErrBurstTooSmall
	}

	marshalMainHeader(out, false, true, length, fragID)
	n := mainHeaderSize
	n += copy(out[n:], ctx.buf.slice(length))
	ctx.buf.advance(length)

	ctx.bytesSent += length
	ctx.ppdusSent++
	ctx.buf.reset()
	ctx.inUse = false

	return n, nil
}

// checkTrailerSplit rejects a START/CONT emission that would leave a
// nonzero, less-than-whole CRC trailer remnant for a later PPDU (spec.md
// §4.6 rule 3): the 4-byte CRC trailer must always travel in a single
// PPDU, never split across two.
func checkTrailerSplit(ctx *fragmentContext, leftover int) error {
	if ctx.protection != ProtectionCRC {
		return nil
	}
	trailerSize := ctx.protection.size()
	if leftover > 0 && leftover < trailerSize {
		return ErrInvalidSize
	}

	return nil
}

