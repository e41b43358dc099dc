package serial

import "quietude/src/hardware/bcm2835"

// The byte layer moves single bytes between the caller and the rings.  The
// ring shared with the interrupt handler is protected by masking just that
// ring's interrupt source around the update, so the other source keeps
// working.

func (d *Device) readByteNonblocking() (byte, bool) {
	if d.rx.Empty() {
		return 0, false
	}
	ier := &d.board.Aux.MiniUARTInterruptEnable
	ier.ClearBits(bcm2835.ReceiveFIFOReady)
	c, ok := d.rx.Pop()
	ier.SetBits(bcm2835.ReceiveFIFOReady)
	return c, ok
}

func (d *Device) readByte() byte {
	for {
		if c, ok := d.readByteNonblocking(); ok {
			return c
		}
		d.cpu.WaitForInterrupt()
	}
}

func (d *Device) writeByte(c byte) {
	for d.tx.Full() {
		d.cpu.WaitForInterrupt()
	}
	ier := &d.board.Aux.MiniUARTInterruptEnable
	ier.ClearBits(bcm2835.TransmitFIFOEmpty)
	d.tx.Push(c)
	ier.SetBits(bcm2835.TransmitFIFOEmpty)
}

func (d *Device) flush() {
	for !d.tx.Empty() {
		d.cpu.WaitForInterrupt()
	}
	for !d.board.Aux.MiniUARTLineStatus.HasBits(bcm2835.TransmitterIdle) {
	}
}

// HandleInterrupt services the mini UART.  Call it from the IRQ handler when
// the AUX interrupt is pending.
func (d *Device) HandleInterrupt() {
	inSync := d.inSync.Load()
	if !inSync {
		d.cpu.WriteBarrier()
	}
	aux := d.board.Aux
	d.stats.interrupts.Add(1)
	// a source masked by the mainline means its ring is being updated
	ier := aux.MiniUARTInterruptEnable.Get()

	if ier&bcm2835.ReceiveFIFOReady != 0 {
		for !d.rx.Full() && aux.MiniUARTLineStatus.HasBits(bcm2835.ReceivedDataAvailable) {
			d.rx.Push(byte(aux.MiniUARTData.Get()))
			d.stats.received.Add(1)
		}
		if d.rx.Full() {
			// the FIFO keeps asserting until someone reads, and that
			// someone cannot run while we are here
			aux.MiniUARTInterruptEnable.ClearBits(bcm2835.ReceiveFIFOReady)
			d.stats.receiveMasked.Add(1)
		}
	}

	if ier&bcm2835.TransmitFIFOEmpty != 0 {
		for !d.tx.Empty() && aux.MiniUARTLineStatus.HasBits(bcm2835.TransmitFIFOSpaceAvailable) {
			c, _ := d.tx.Pop()
			aux.MiniUARTData.Set(uint32(c))
			d.stats.sent.Add(1)
		}
		if d.tx.Empty() {
			aux.MiniUARTInterruptEnable.ClearBits(bcm2835.TransmitFIFOEmpty)
			d.stats.transmitMasked.Add(1)
		}
	}

	if !inSync {
		d.cpu.ReadBarrier()
	}
}
