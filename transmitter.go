package rle

// Transmitter encapsulates SDUs and fragments them into PPDUs for the
// return link, tracking one fragmentContext per fragment_id (spec.md §4).
type Transmitter struct {
	cfg      Config
	contexts [maxFragID]*fragmentContext
}

// NewTransmitter builds a Transmitter from cfg, validating it first.
func NewTransmitter(cfg Config) (*Transmitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tx := &Transmitter{cfg: cfg}
	for i := range tx.contexts {
		tx.contexts[i] = &fragmentContext{}
	}

	return tx, nil
}

// Encapsulate builds a canonical ALPDU from sdu and holds it in fragID's
// context, ready for Fragment to drain (spec.md §4.5). fragID must be
// 0..7, and that context must currently be idle: only one ALPDU may be in
// flight per fragment_id at a time.
func (tx *Transmitter) Encapsulate(sdu SDU, fragID uint8) error {
	if tx == nil {
		return ErrNilTransmitter
	}
	if int(fragID) >= maxFragID {
		return ErrFragIDRange
	}

	return encapsulate(&tx.cfg, tx.contexts[fragID], sdu)
}

// Fragment emits the next PPDU for fragID into out (sized to the burst
// length) and returns the number of bytes written (spec.md §4.6).
func (tx *Transmitter) Fragment(fragID uint8, out []byte) (int, error) {
	if tx == nil {
		return 0, ErrNilTransmitter
	}
	if int(fragID) >= maxFragID {
		return 0, ErrFragIDRange
	}

	return fragment(&tx.cfg, fragID, tx.contexts[fragID], out)
}

// Idle reports whether fragID's context has no ALPDU in flight: callers
// drain a burst loop until this becomes true (spec.md §4.6).
func (tx *Transmitter) Idle(fragID uint8) bool {
	if tx == nil || int(fragID) >= maxFragID {
		return true
	}

	return tx.contexts[fragID].idle()
}

// QueueSize reports the total number of ALPDU bytes (header, SDU and
// trailer) still buffered for fragID, including bytes already emitted in
// earlier PPDUs of the same ALPDU (spec.md §4.9's queue_size accessor).
func (tx *Transmitter) QueueSize(fragID uint8) (int, error) {
	if tx == nil {
		return 0, ErrNilTransmitter
	}
	if int(fragID) >= maxFragID {
		return 0, ErrFragIDRange
	}

	ctx := tx.contexts[fragID]

	return ctx.buf.alpduEnd - ctx.buf.alpduStart, nil
}

// RemainingALPDULength reports the number of ALPDU bytes for fragID that
// have not yet been emitted by Fragment (spec.md §4.9's
// remaining_alpdu_length accessor).
func (tx *Transmitter) RemainingALPDULength(fragID uint8) (int, error) {
	if tx == nil {
		return 0, ErrNilTransmitter
	}
	if int(fragID) >= maxFragID {
		return 0, ErrFragIDRange
	}

	return tx.contexts[fragID].buf.remaining(), nil
}

// CheckFragIntegrity checks fragID's context for one inconsistency: a
// context marked in use that holds no buffered ALPDU, reported as
// ErrFragIntegrity (spec.md §4.9's check_frag_integrity accessor). An idle
// context and a context part-way through draining an ALPDU both pass; the
// check does not look at how much of the ALPDU has been emitted or at the
// PPDUs already produced. Transmitter's own methods never leave a context
// in the failing state, so in practice only a nil Transmitter or an
// out-of-range fragID yields an error.
func (tx *Transmitter) CheckFragIntegrity(fragID uint8) error {
	if tx == nil {
		return ErrNilTransmitter
	}
	if int(fragID) >= maxFragID {
		return ErrFragIDRange
	}

	ctx := tx.contexts[fragID]
	if ctx.inUse && ctx.buf.empty() {
		return ErrFragIntegrity
	}

	return nil
}

// Stats reports a point-in-time snapshot of sender-side counters,
// aggregated across every fragment_id context (spec.md §9).
func (tx *Transmitter) Stats() Stats {
	var s Stats
	for _, ctx := range tx.contexts {
		s.BytesSent += ctx.bytesSent
		s.PPDUsSent += ctx.ppdusSent
		s.Drops += ctx.drops
	}

	return s
}
