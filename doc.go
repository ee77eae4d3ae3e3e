// Package rle implements Return Link Encapsulation for DVB-RCS2 satellite
// return links: packing variable-size network SDUs into ALPDUs, optionally
// fragmenting them across PPDUs to fit fixed-size transmission bursts, and
// packing PPDUs into FPDUs for the link layer.
//
// A Transmitter owns one fragmentContext per fragment_id (0..7) and is
// driven by repeated Encapsulate/Fragment calls until a burst is full. A
// Receiver owns the dual reassemblyContext array and is driven by a single
// Decapsulate call per received FPDU.
package rle
