// Package metrics exposes Prometheus counters for the rle
// Transmitter and Receiver, pollable via internal/statsserver.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks Prometheus metrics for one Transmitter or Receiver.
//
// All metrics use the "rle_" prefix. Methods handle a nil receiver
// gracefully, so a nil *Metrics acts as a no-op when metrics are disabled.
type Metrics struct {
	// BytesTotal counts SDU/ALPDU bytes processed, by direction.
	// Labels: direction=[sent, received]
	BytesTotal *prometheus.CounterVec

	// PPDUsTotal counts PPDUs emitted or received, by direction.
	PPDUsTotal *prometheus.CounterVec

	// Drops counts SDUs/PPDUs dropped for lack of a free or idle context.
	Drops prometheus.Counter

	// ReassemblyErrors counts receiver-side CRC/SeqNo/framing failures.
	ReassemblyErrors prometheus.Counter
}

// New registers a fresh Metrics set on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BytesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rle_bytes_total",
			Help: "Total SDU/ALPDU bytes processed.",
		}, []string{"direction"}),
		PPDUsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rle_ppdus_total",
			Help: "Total PPDUs emitted or received.",
		}, []string{"direction"}),
		Drops: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rle_drops_total",
			Help: "SDUs or PPDUs dropped for lack of a context or output slot.",
		}),
		ReassemblyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rle_reassembly_errors_total",
			Help: "CRC, sequence-number or framing failures during reassembly.",
		}),
	}

	reg.MustRegister(m.BytesTotal, m.PPDUsTotal, m.Drops, m.ReassemblyErrors)

	return m
}

// ObserveTransmit records a Transmitter.Stats() snapshot's delta.
func (m *Metrics) ObserveTransmit(bytesSent, ppdusSent, drops int) {
	if m == nil {
		return
	}
	m.BytesTotal.WithLabelValues("sent").Add(float64(bytesSent))
	m.PPDUsTotal.WithLabelValues("sent").Add(float64(ppdusSent))
	m.Drops.Add(float64(drops))
}

// ObserveReceive records a Receiver.Stats() snapshot's delta.
func (m *Metrics) ObserveReceive(bytesReceived, ppdusReceived, reassemblyErrs, drops int) {
	if m == nil {
		return
	}
	m.BytesTotal.WithLabelValues("received").Add(float64(bytesReceived))
	m.PPDUsTotal.WithLabelValues("received").Add(float64(ppdusReceived))
	m.ReassemblyErrors.Add(float64(reassemblyErrs))
	m.Drops.Add(float64(drops))
}
