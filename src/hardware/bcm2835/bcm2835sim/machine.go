//go:build !rpi3

package bcm2835sim

import (
	arm64 "quietude/src/hardware/arm-cortex-a53"
	"quietude/src/hardware/bcm2835"
	"quietude/src/hardware/mmio"
)

// Machine is one core of a Pi 3 with the peripherals the kernel uses.  The
// core's WFI is where simulated time passes and interrupts are taken.
type Machine struct {
	Board *bcm2835.Board
	UART  *MiniUART
	Pulls *PullRecorder
	Core  *arm64.Core
	Timer *arm64.GenericTimer
	Local *arm64.QuadA7RegisterMap

	// IRQ runs for each interrupt taken.  When nil the EL1h IRQ vector of
	// the exception table is entered instead.
	IRQ func()
	// TicksPerWait is how far the generic timer moves on each WFI.
	TicksPerWait uint64
	// StallLimit bounds the number of consecutive waits that see nothing
	// happen before the machine gives up.
	StallLimit int

	inIRQ  bool
	stalls int
	taken  int
}

// TimerFrequency is the generic timer rate of a Pi 3.
const TimerFrequency = 19_200_000

// NewMachine builds a machine with the mini UART unconnected, time standing
// still and the generic timer at TimerFrequency.
func NewMachine() *Machine {
	m := &Machine{
		Board:      bcm2835.NewBoard(),
		Timer:      arm64.NewGenericTimer(TimerFrequency),
		Local:      arm64.LocalPeripherals(),
		StallLimit: 100_000,
	}
	m.UART = NewMiniUART(m.Board.Aux)
	m.Pulls = NewPullRecorder(m.Board.GPIO)
	m.Core = &arm64.Core{Timer: m.Timer, Idle: m.wait, Unmasked: func() { m.Deliver() }}
	m.Board.InterruptController.IRQPending1.Attach(&mmio.Hook{Read: m.pending1})
	m.Local.Core0IRQSource.Attach(&mmio.Hook{Read: m.core0Source})
	// unmasking a source that is already asserted interrupts at once
	ier := &m.Board.Aux.MiniUARTInterruptEnable
	ier.Attach(&mmio.Hook{Write: func(v uint32) {
		ier.Store(v)
		m.Deliver()
	}})
	return m
}

func (m *Machine) pending1() uint32 {
	var p uint32
	if m.UART.Asserted() {
		p |= bcm2835.AuxInterrupt
	}
	return p & m.Board.InterruptController.EnableIRQs1.Load()
}

func (m *Machine) core0Source() uint32 {
	var s uint32
	if m.Timer.Pending() && m.Local.Core0TimerInterruptControl.Load()&arm64.QuadA7NonSecurePhysicalTimer != 0 {
		s |= arm64.QuadA7NonSecurePhysicalTimer
	}
	if m.pending1() != 0 {
		s |= arm64.QuadA7GPUInterrupt
	}
	return s
}

func (m *Machine) wait() {
	m.UART.Step()
	if m.TicksPerWait > 0 {
		m.Timer.Advance(m.TicksPerWait)
	}
	if m.Core.InterruptsMasked() {
		// WFI wakes for a pending interrupt even when it cannot be
		// taken; the caller takes it when it unmasks
		if m.core0Source() != 0 {
			m.stalls = 0
			return
		}
		m.stall()
		return
	}
	if m.Deliver() == 0 {
		m.stall()
		return
	}
	m.stalls = 0
}

func (m *Machine) stall() {
	m.stalls++
	if m.StallLimit > 0 && m.stalls > m.StallLimit {
		panic("bcm2835sim: core is waiting for an interrupt that will never come")
	}
}

// Deliver takes interrupts while any are asserted and unmasked, the way the
// core would on return from each handler.  It returns how many were taken.
// Handlers never nest.
func (m *Machine) Deliver() int {
	if m.inIRQ {
		return 0
	}
	n := 0
	for !m.Core.InterruptsMasked() && m.core0Source() != 0 {
		m.inIRQ = true
		state := m.Core.DisableInterrupts()
		if m.IRQ != nil {
			m.IRQ()
		} else {
			arm64.TakeException(arm64.VectorEl1hInterrupts, 0, 0)
		}
		m.Core.RestoreInterrupts(state)
		m.inIRQ = false
		n++
		m.taken++
		if n > 1_000 {
			panic("bcm2835sim: interrupt storm, a handler is not clearing its source")
		}
	}
	return n
}

// Taken is the total number of interrupts delivered.
func (m *Machine) Taken() int {
	return m.taken
}
