package rle

import "fmt"

// decapsulate parses one FPDU, routes its PPDUs through rx's per-frag_id
// reassembly contexts, and writes recovered SDUs into sdus from index 0
// (spec.md §4.8).
// It returns the number of SDUs written. Per spec.md §7, a protocol error
// on any one ALPDU (CRC/SeqNo mismatch, an out-of-order fragment
// transition) flushes only that context and is reported in the returned
// error, but never prevents the other, validly-reassembled SDUs in the
// same FPDU from being published.
func decapsulate(cfg *Config, rx *Receiver, fpdu []byte, sdus []SDU, label []byte) (int, error) {
	if len(sdus) == 0 {
		return 0, ErrInvalidSDUSlots
	}
	if !validLabelSize(len(label)) {
		return 0, ErrInvalidPayload
	}

	cursor := copy(label, fpdu[:min(len(label), len(fpdu))])
	if cursor < len(label) {
		return 0, ErrInvalidFPDU
	}

	n := 0
	var protoErr error

	for cursor+mainHeaderSize <= len(fpdu) {
		if fpdu[cursor] == 0 && fpdu[cursor+1] == 0 {
			break // padding sentinel
		}

		hdr, hdrLen, err := unmarshalHeader(fpdu[cursor:])
		if err != nil {
			return n, ErrInvalidFPDU
		}
		if cursor+hdrLen+hdr.length > len(fpdu) {
			return n, ErrInvalidFPDU
		}

		payload := fpdu[cursor+hdrLen : cursor+hdrLen+hdr.length]

		if n >= len(sdus) {
			rx.drops++

			return n, ErrSomeDropped
		}

		sdu, ok, err := rx.dispatch(cfg, hdr, payload)
		if err != nil && protoErr == nil {
			protoErr = err
		}
		if ok {
			sdus[n] = sdu
			n++
		}

		cursor += hdrLen + hdr.length
	}

	for i := cursor; i < len(fpdu); i++ {
		if fpdu[i] != 0 {
			rx.paddingWarnings++

			break
		}
	}

	return n, protoErr
}

// dispatch routes a single decoded PPDU header+payload to the right
// reassembly path, returning a delivered SDU when the ALPDU it belongs to
// is now complete and valid. err is non-nil when the PPDU fails a
// protocol-level check (bad COMPLETE label, CRC mismatch, overrun,
// out-of-order fragment); a failing fragment that finds its context armed
// also flushes that context.
func (rx *Receiver) dispatch(cfg *Config, hdr ppduHeader, payload []byte) (SDU, bool, error) {
	if hdr.kind == Complete {
		return rx.dispatchComplete(cfg, hdr, payload)
	}

	return rx.dispatchFragment(hdr, payload)
}

func (rx *Receiver) dispatchComplete(cfg *Config, hdr ppduHeader, payload []byte) (SDU, bool, error) {
	idx, ok := rx.allocFree()
	if !ok {
		rx.drops++

		return SDU{}, false, nil
	}
	defer rx.free(idx)

	ctx := rx.contexts[idx]
	ctx.ppdusReceived++
	ctx.bytesReceived += len(payload)

	ptype, ptypeHeaderLen, ok := decodeCompleteLabel(cfg, labelType(hdr.labelType), payload)
	if !ok {
		ctx.reassemblyErrs++

		return SDU{}, false, fmt.Errorf("rle: complete ppdu label: %w", ErrProtection)
	}

	protection := chooseProtectionMode(cfg)
	trailerSize := protection.size()
	if ptypeHeaderLen+trailerSize > len(payload) {
		ctx.reassemblyErrs++

		return SDU{}, false, fmt.Errorf("rle: complete ppdu shorter than its trailer: %w", ErrProtection)
	}

	body := payload[ptypeHeaderLen : len(payload)-trailerSize]
	trailer := payload[len(payload)-trailerSize:]

	if protection == ProtectionCRC {
		want := cfg.crc32Func()(crcInput(ptype, body))
		if readCRCTrailer(trailer) != want {
			ctx.reassemblyErrs++

			return SDU{}, false, fmt.Errorf("rle: complete ppdu crc mismatch: %w", ErrProtection)
		}
	}
	// SeqNo continuity cannot be validated for COMPLETE PPDUs: they carry
	// no frag_id on the wire, so there is no persistent per-stream counter
	// to compare against. The byte is accepted, not continuity-checked.

	ctx.sdusDelivered++
	sdu := SDU{ProtocolType: ptype, Payload: append([]byte(nil), body...)}

	return sdu, true, nil
}

// decodeCompleteLabel strips a COMPLETE PPDU's protocol-type header
// according to its label type, returning the protocol type and the number
// of header bytes consumed.
func decodeCompleteLabel(cfg *Config, lt labelType, payload []byte) (ProtocolType, int, bool) {
	switch lt {
	case labelTypeSignaling:
		return ProtoSignaling, 0, true
	case labelTypeOmitted:
		if ptype, ok := decompressProtocolType(cfg.ImplicitProtocolType); ok {
			return ptype, 0, true
		}

		return ProtocolType(cfg.ImplicitProtocolType), 0, true
	case labelTypeLegacy:
		if cfg.UseCompressedPtype {
			if len(payload) < 1 {
				return 0, 0, false
			}
			ptype, ok := decompressProtocolType(payload[0])

			return ptype, 1, ok
		}
		if len(payload) < 2 {
			return 0, 0, false
		}

		return ProtocolType(uint16(payload[0])<<8 | uint16(payload[1])), 2, true
	default: // labelTypeReserved or anything else: never legitimately produced
		return 0, 0, false
	}
}

func (rx *Receiver) dispatchFragment(hdr ppduHeader, payload []byte) (SDU, bool, error) {
	if int(hdr.fragID) >= maxFragID {
		return SDU{}, false, fmt.Errorf("rle: fragment: %w", ErrFragIDRange)
	}
	ctx := rx.contexts[hdr.fragID]

	switch hdr.kind {
	case Start:
		wasBusy := !ctx.idle()
		if wasBusy {
			ctx.drops++
			ctx.flush()
		}
		ctx.inUse = true
		protection := ProtectionSeqNo
		if hdr.useCRC {
			protection = ProtectionCRC
		}
		ctx.protection = protection
		ctx.buf.arm(hdr.totalLen)
		if !ctx.buf.write(payload) {
			ctx.reassemblyErrs++
			ctx.flush()
			ctx.inUse = false

			return SDU{}, false, fmt.Errorf("rle: start fragment overruns total_length: %w", ErrProtection)
		}
		ctx.ppdusReceived++
		ctx.bytesReceived += len(payload)

		if wasBusy {
			return SDU{}, false, fmt.Errorf("rle: start fragment_id %d while a prior alpdu was still in flight: %w", hdr.fragID, ErrOutOfOrder)
		}

		return SDU{}, false, nil

	case Cont:
		if ctx.idle() {
			ctx.reassemblyErrs++

			return SDU{}, false, fmt.Errorf("rle: cont fragment_id %d with no start in flight: %w", hdr.fragID, ErrOutOfOrder)
		}
		if !ctx.buf.write(payload) {
			ctx.reassemblyErrs++
			ctx.flush()
			ctx.inUse = false

			return SDU{}, false, fmt.Errorf("rle: cont fragment overruns total_length: %w", ErrProtection)
		}
		ctx.ppdusReceived++
		ctx.bytesReceived += len(payload)

		return SDU{}, false, nil

	default: // End
		if ctx.idle() {
			ctx.reassemblyErrs++

			return SDU{}, false, fmt.Errorf("rle: end fragment_id %d with no start in flight: %w", hdr.fragID, ErrOutOfOrder)
		}
		if !ctx.buf.write(payload) {
			ctx.reassemblyErrs++
			ctx.flush()
			ctx.inUse = false

			return SDU{}, false, fmt.Errorf("rle: end fragment overruns total_length: %w", ErrProtection)
		}
		ctx.ppdusReceived++
		ctx.bytesReceived += len(payload)

		if !ctx.buf.complete() {
			ctx.reassemblyErrs++
			ctx.flush()
			ctx.inUse = false

			return SDU{}, false, fmt.Errorf("rle: end fragment leaves alpdu short of total_length: %w", ErrProtection)
		}

		return rx.finishReassembly(ctx)
	}
}

// finishReassembly validates the trailer of a fully-received ALPDU and, on
// success, delivers the recovered SDU. Fragmented ALPDUs always use the
// canonical uncompressed 2-byte protocol-type header (see encap.go's
// encapsulate doc comment and DESIGN.md's Open Question 2 for why
// fragmentation never compresses or omits it).
func (rx *Receiver) finishReassembly(ctx *reassemblyContext) (SDU, bool, error) {
	defer func() {
		ctx.flush()
		ctx.inUse = false
	}()

	alpdu := ctx.buf.bytes()
	trailerSize := ctx.protection.size()
	if len(alpdu) < 2+trailerSize {
		ctx.reassemblyErrs++

		return SDU{}, false, fmt.Errorf("rle: reassembled alpdu shorter than its trailer: %w", ErrProtection)
	}

	ptype := ProtocolType(uint16(alpdu[0])<<8 | uint16(alpdu[1]))
	body := alpdu[2 : len(alpdu)-trailerSize]
	trailer := alpdu[len(alpdu)-trailerSize:]

	switch ctx.protection {
	case ProtectionCRC:
		want := rx.cfg.crc32Func()(crcInput(ptype, body))
		if readCRCTrailer(trailer) != want {
			ctx.reassemblyErrs++

			return SDU{}, false, fmt.Errorf("rle: reassembled alpdu crc mismatch: %w", ErrProtection)
		}
	default:
		if ctx.haveSeq && trailer[0] != nextSeqNo(ctx.lastSeq) {
			ctx.reassemblyErrs++
			ctx.lastSeq = trailer[0]
			ctx.haveSeq = true

			return SDU{}, false, fmt.Errorf("rle: reassembled alpdu seqno mismatch: %w", ErrProtection)
		}
		ctx.lastSeq = trailer[0]
		ctx.haveSeq = true
	}

	ctx.sdusDelivered++

	return SDU{ProtocolType: ptype, Payload: append([]byte(nil), body...)}, true, nil
}
