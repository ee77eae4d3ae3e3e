package rle

// fragmentContext is the sender's per-frag_id state (spec.md §3, §4.6):
// at most one ALPDU in flight, drained by successive Fragment calls.
type fragmentContext struct {
	inUse      bool
	buf        fragBuffer
	ptype      ProtocolType
	sduLen     int
	protection ProtectionMode
	seq        uint8 // next sequence number to assign on encapsulate

	bytesSent int
	ppdusSent int
	drops     int
}

func (c *fragmentContext) idle() bool {
	return !c.inUse || c.buf.empty()
}

// trailerOffset returns the byte offset of the trailer within the
// canonical (uncompressed-header) ALPDU buffer.
func (c *fragmentContext) trailerOffset() int {
	return 2 + c.sduLen
}

// reassemblyContext is the receiver's per-frag_id state (spec.md §3, §4.8).
type reassemblyContext struct {
	inUse      bool
	buf        reassemblyBuffer
	protection ProtectionMode
	lastSeq    uint8
	haveSeq    bool

	bytesReceived  int
	ppdusReceived  int
	reassemblyErrs int
	drops          int
	sdusDelivered  int
}

func (c *reassemblyContext) idle() bool {
	return !c.inUse || !c.buf.armed()
}

func (c *reassemblyContext) flush() {
	c.buf.reset()
	c.haveSeq = false
}
