//go:build !rpi3

// Package bcm2835sim models enough of the BCM2837 for the console and timer
// code to run on a development machine: a mini UART with its two 8 byte
// FIFOs and interrupt line, the GPIO pull sequencer, and a Machine that
// delivers interrupts whenever the core waits for one.
package bcm2835sim

import (
	"sync"

	"quietude/src/hardware/bcm2835"
	"quietude/src/hardware/mmio"
)

// MiniUART is the device behind an AuxPeripheralsRegisterMap.  Time passes
// in steps; one step shifts at most one byte out of the transmit FIFO and
// one byte of pending input into the receive FIFO.
type MiniUART struct {
	mu  sync.Mutex
	aux *bcm2835.AuxPeripheralsRegisterMap

	rx      []byte
	tx      []byte
	input   []byte
	wire    []byte
	overrun bool
	lost    int
	clears  int
	reads   int

	// Loopback connects the transmit pin to the receive pin.
	Loopback bool
	// StatusReadsPerStep is how many line status reads make one step pass,
	// so code polling the line status sees the transmitter drain.  Zero
	// means time only moves on Step.
	StatusReadsPerStep int
	// EnableGlitch puts the byte the real part receives when its receiver
	// is switched on into the receive FIFO.
	EnableGlitch bool
}

// GlitchByte is what the receiver picks up when it is enabled with the pins
// still floating.
const GlitchByte = 0xf8

// NewMiniUART attaches a model to aux.
func NewMiniUART(aux *bcm2835.AuxPeripheralsRegisterMap) *MiniUART {
	u := &MiniUART{aux: aux, StatusReadsPerStep: 1}
	aux.MiniUARTData.Attach(&mmio.Hook{Read: u.readData, Write: u.writeData})
	aux.MiniUARTLineStatus.Attach(&mmio.Hook{Read: u.readLineStatus, Write: func(uint32) {}})
	aux.MiniUARTInterruptIdentify.Attach(&mmio.Hook{Read: u.readIdentify, Write: u.writeIdentify})
	aux.MiniUARTExtraControl.Attach(&mmio.Hook{Write: u.writeExtraControl})
	return u
}

func (u *MiniUART) enabled() bool {
	return u.aux.Enables.Load()&bcm2835.PeripheralMiniUART != 0
}

func (u *MiniUART) readData() uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.rx) == 0 {
		return 0
	}
	b := u.rx[0]
	u.rx = u.rx[1:]
	return uint32(b)
}

func (u *MiniUART) writeData(v uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.enabled() || len(u.tx) == bcm2835.MiniUARTFIFODepth {
		return
	}
	u.tx = append(u.tx, byte(v))
}

func (u *MiniUART) readLineStatus() uint32 {
	u.mu.Lock()
	u.reads++
	step := u.StatusReadsPerStep > 0 && u.reads%u.StatusReadsPerStep == 0
	u.mu.Unlock()
	if step {
		u.Step()
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	var lsr uint32
	if len(u.rx) > 0 {
		lsr |= bcm2835.ReceivedDataAvailable
	}
	if u.overrun {
		lsr |= bcm2835.ReceivedDataOverrun
		u.overrun = false
	}
	if len(u.tx) < bcm2835.MiniUARTFIFODepth {
		lsr |= bcm2835.TransmitFIFOSpaceAvailable
	}
	if len(u.tx) == 0 {
		lsr |= bcm2835.TransmitterIdle
	}
	return lsr
}

func (u *MiniUART) readIdentify() uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	ier := u.aux.MiniUARTInterruptEnable.Load()
	switch {
	case ier&bcm2835.ReceiveFIFOReady != 0 && len(u.rx) > 0:
		return bcm2835.ReceiveInterruptsPending
	case ier&bcm2835.TransmitFIFOEmpty != 0 && len(u.tx) == 0:
		return bcm2835.TransmitInterruptsPending
	}
	return bcm2835.NoInterruptPending
}

func (u *MiniUART) writeIdentify(v uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if v&bcm2835.ClearReceiveFIFO != 0 {
		u.rx = u.rx[:0]
	}
	if v&bcm2835.ClearTransmitFIFO != 0 {
		u.tx = u.tx[:0]
	}
	if v&bcm2835.ClearFIFOs != 0 {
		u.clears++
	}
}

func (u *MiniUART) writeExtraControl(v uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	prev := u.aux.MiniUARTExtraControl.Load()
	u.aux.MiniUARTExtraControl.Store(v)
	if u.EnableGlitch && prev&bcm2835.ReceiveEnable == 0 && v&bcm2835.ReceiveEnable != 0 {
		u.rx = append(u.rx, GlitchByte)
	}
}

// Step lets one character time pass.
func (u *MiniUART) Step() {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.enabled() {
		return
	}
	cntl := u.aux.MiniUARTExtraControl.Load()
	if cntl&bcm2835.TransmitEnable != 0 && len(u.tx) > 0 {
		b := u.tx[0]
		u.tx = u.tx[1:]
		u.wire = append(u.wire, b)
		if u.Loopback {
			u.input = append(u.input, b)
		}
	}
	if cntl&bcm2835.ReceiveEnable != 0 && len(u.input) > 0 {
		if len(u.rx) < bcm2835.MiniUARTFIFODepth {
			u.rx = append(u.rx, u.input[0])
			u.input = u.input[1:]
		} else if !u.Loopback {
			// the far end does not wait for us
			u.overrun = true
			u.lost++
			u.input = u.input[1:]
		}
	}
}

// Inject queues bytes arriving from the far end of the line.
func (u *MiniUART) Inject(p []byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.input = append(u.input, p...)
}

// Wire returns everything that has been shifted out so far.
func (u *MiniUART) Wire() []byte {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]byte(nil), u.wire...)
}

// Busy reports whether there is anything left for Step to move.
func (u *MiniUART) Busy() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.tx) > 0 || len(u.input) > 0
}

// Overruns counts bytes lost because the receive FIFO was full.
func (u *MiniUART) Overruns() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.lost
}

// FIFOClears counts writes to IIR that cleared at least one FIFO.
func (u *MiniUART) FIFOClears() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.clears
}

// ReceiveFIFOLen and TransmitFIFOLen expose the hardware FIFO levels.
func (u *MiniUART) ReceiveFIFOLen() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.rx)
}

func (u *MiniUART) TransmitFIFOLen() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.tx)
}

// Asserted reports the state of the AUX interrupt line for the mini UART.
func (u *MiniUART) Asserted() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.enabled() {
		return false
	}
	ier := u.aux.MiniUARTInterruptEnable.Load()
	return ier&bcm2835.ReceiveFIFOReady != 0 && len(u.rx) > 0 ||
		ier&bcm2835.TransmitFIFOEmpty != 0 && len(u.tx) == 0
}
