package rle

// Receiver reassembles ALPDUs from FPDUs received on the return link and
// recovers SDUs from them (spec.md §4.8). Mutation is safe only if the
// caller serializes access to a given frag_id: Decapsulate mutates
// per-frag_id context state with no locking of its own, so two goroutines
// decapsulating FPDUs that may touch the same frag_id must coordinate
// externally (spec.md §5).
type Receiver struct {
	cfg      Config
	contexts [maxFragID]*reassemblyContext
	borrowed idAllocator

	drops           int
	paddingWarnings int
}

// NewReceiver builds a Receiver from cfg, validating it first.
func NewReceiver(cfg Config) (*Receiver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rx := &Receiver{cfg: cfg}
	for i := range rx.contexts {
		rx.contexts[i] = &reassemblyContext{}
	}

	return rx, nil
}

// Decapsulate parses fpdu, writing recovered SDUs into sdus and the FPDU's
// optional label (spec.md §3) into label. It returns the number of SDUs
// written. label must be 0, 3 or 6 bytes; a shorter fpdu than label is an
// error.
func (rx *Receiver) Decapsulate(fpdu []byte, sdus []SDU, label []byte) (int, error) {
	if rx == nil {
		return 0, ErrNilReceiver
	}

	return decapsulate(&rx.cfg, rx, fpdu, sdus, label)
}

// allocFree transiently borrows an idle reassemblyContext slot to decode a
// single COMPLETE PPDU, which carries no frag_id of its own (spec.md
// §4.8). It never collides with a slot genuinely reassembling a fragmented
// ALPDU, since idle() also requires the slot's buffer be unarmed.
func (rx *Receiver) allocFree() (int, bool) {
	rx.borrowed.mu.Lock()
	defer rx.borrowed.mu.Unlock()

	for i, ctx := range rx.contexts {
		if !ctx.idle() || rx.borrowed.used[i] {
			continue
		}
		rx.borrowed.used[i] = true

		return i, true
	}

	return 0, false
}

func (rx *Receiver) free(i int) {
	rx.borrowed.release(uint8(i))
}

// Stats reports a point-in-time snapshot of receiver-side counters,
// aggregated across every fragment_id context (spec.md §9).
func (rx *Receiver) Stats() Stats {
	var s Stats
	for _, ctx := range rx.contexts {
		s.BytesReceived += ctx.bytesReceived
		s.PPDUsReceived += ctx.ppdusReceived
		s.ReassemblyErrors += ctx.reassemblyErrs
		s.Drops += ctx.drops
		s.SDUsDelivered += ctx.sdusDelivered
	}
	s.Drops += rx.drops
	s.PaddingWarnings = rx.paddingWarnings

	return s
}
