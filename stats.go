package rle

// Stats is a point-in-time snapshot of counters aggregated across every
// fragment_id context of a Transmitter or Receiver (spec.md §9). Fields
// that don't apply to one side or the other are left zero.
type Stats struct {
	// Sender-side.
	BytesSent int
	PPDUsSent int

	// Receiver-side.
	BytesReceived    int
	PPDUsReceived    int
	ReassemblyErrors int
	PaddingWarnings  int
	SDUsDelivered    int

	// Shared: ALPDUs/PPDUs dropped for lack of a free context, a busy
	// context, or a full output slice.
	Drops int
}
