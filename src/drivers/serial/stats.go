package serial

import "sync/atomic"

type counters struct {
	interrupts     atomic.Uint64
	received       atomic.Uint64
	sent           atomic.Uint64
	receiveMasked  atomic.Uint64
	transmitMasked atomic.Uint64
}

// Stats is a snapshot of the interrupt handler's work.
type Stats struct {
	Interrupts uint64
	// bytes moved between the FIFOs and the rings
	Received uint64
	Sent     uint64
	// times a source was masked because its ring was full (receive) or
	// empty (transmit)
	ReceiveMasked  uint64
	TransmitMasked uint64
}

func (d *Device) Stats() Stats {
	return Stats{
		Interrupts:     d.stats.interrupts.Load(),
		Received:       d.stats.received.Load(),
		Sent:           d.stats.sent.Load(),
		ReceiveMasked:  d.stats.receiveMasked.Load(),
		TransmitMasked: d.stats.transmitMasked.Load(),
	}
}
