package rle

// encapsulate builds a canonical ALPDU from sdu into ctx (spec.md §4.5).
//
// The canonical form always uses the uncompressed 2-byte protocol-type
// header, regardless of Config.AllowPtypeOmission / UseCompressedPtype:
// those savings are only realized later, by Fragment, when the whole
// ALPDU turns out to fit a single COMPLETE PPDU (see fragment.go). The
// trailer is computed here, eagerly, since the full SDU is already known.
func encapsulate(cfg *Config, ctx *fragmentContext, sdu SDU) error {
	if len(sdu.Payload) > MaxSDUSize {
		return ErrSDUTooBig
	}
	if !ctx.idle() {
		return ErrContextBusy
	}

	protection := chooseProtectionMode(cfg)
	trailerSize := protection.size()
	alpdu := make([]byte, 2+len(sdu.Payload)+trailerSize)
	alpdu[0] = byte(sdu.ProtocolType >> 8)
	alpdu[1] = byte(sdu.ProtocolType)
	copy(alpdu[2:], sdu.Payload)

	trailer := alpdu[2+len(sdu.Payload):]
	if protection == ProtectionCRC {
		crc := cfg.crc32Func()(crcInput(sdu.ProtocolType, sdu.Payload))
		writeCRCTrailer(trailer, crc)
	} else {
		writeSeqNoTrailer(trailer, ctx.seq)
		ctx.seq = nextSeqNo(ctx.seq)
	}

	ctx.inUse = true
	ctx.ptype = sdu.ProtocolType
	ctx.sduLen = len(sdu.Payload)
	ctx.protection = protection
	ctx.buf.fill(alpdu)

	return nil
}
