// Package joy ties the console and the timeout queue to the machine: it owns
// them, routes their interrupts and gives the boot code one place to start
// everything.
//
// Nothing that runs in interrupt context writes to the console.  Timeout
// callbacks set word-sized state that the mainline picks up in Poll, and log
// output produced inside a handler waits in a ring until the mainline prints
// it.
package joy

import (
	"sync/atomic"

	"quietude/src/drivers/serial"
	"quietude/src/gen"
	arm64 "quietude/src/hardware/arm-cortex-a53"
	"quietude/src/hardware/bcm2835"
	"quietude/src/lib/timeout"
	"quietude/src/lib/trust"
)

// IRQLogSize is how much log output handlers can leave for the mainline
// before the rest is dropped.
const IRQLogSize = 512

// CPU is everything the kernel's drivers need from the core.
type CPU interface {
	serial.CPU
	timeout.Masker
}

type Kernel struct {
	Console  *serial.Device
	Timeouts *timeout.Queue

	board *bcm2835.Board
	local *arm64.QuadA7RegisterMap
	cpu   CPU

	spurious atomic.Uint64
	inIRQ    atomic.Bool

	// filled only in interrupt context, drained by Poll with interrupts
	// masked
	irqLogStorage [IRQLogSize]byte
	irqLog        gen.ByteRing
	irqLogDropped atomic.Uint64

	beats         atomic.Uint64
	beatsLogged   uint64
	beatStalled   atomic.Bool
	stallReported bool
}

// NewKernel builds the console and timeout queue for one board.  Nothing is
// started.
func NewKernel(board *bcm2835.Board, local *arm64.QuadA7RegisterMap, cpu CPU, timer timeout.Timer) *Kernel {
	k := &Kernel{
		Console:  serial.New(board, cpu, serial.Config{}),
		Timeouts: timeout.New(cpu, timer),
		board:    board,
		local:    local,
		cpu:      cpu,
	}
	k.irqLog.Init(k.irqLogStorage[:])
	return k
}

// Start brings up the console, installs the IRQ handler and routes the core
// timer.  If logToConsole is set trust output moves to the console.  The
// caller unmasks interrupts when it is ready for them.
func (k *Kernel) Start(logToConsole bool) {
	k.Console.Init()
	if logToConsole {
		trust.SetOutput(consoleLog{k})
	}
	arm64.SetExceptionHandlerEl1hInterrupts(k.irq)
	timeout.EnableCoreTimerInterrupt(k.local)
	trust.Infof("console up, log level: %s", trust.LevelToString())
}

func (k *Kernel) irq(uint64, uint64, uint64) {
	k.inIRQ.Store(true)
	k.HandleIRQ()
	k.inIRQ.Store(false)
}

// HandleIRQ asks the local controller which sources are asserting and
// services each one.  The timer goes first; it is the one with a deadline.
func (k *Kernel) HandleIRQ() {
	source := k.local.Core0IRQSource.Get()
	handled := false
	if source&arm64.QuadA7NonSecurePhysicalTimer != 0 {
		k.Timeouts.HandleInterrupt()
		handled = true
	}
	if source&arm64.QuadA7GPUInterrupt != 0 &&
		k.board.InterruptController.IRQPending1.HasBits(bcm2835.AuxInterrupt) {
		k.Console.HandleInterrupt()
		handled = true
	}
	if !handled {
		k.spurious.Add(1)
	}
}

// Spurious counts interrupts that no source claimed.
func (k *Kernel) Spurious() uint64 {
	return k.spurious.Load()
}

// Heartbeat counts a beat every periodNs; Poll logs the console statistics
// when it sees a new one.  It uses one timeout slot.
func (k *Kernel) Heartbeat(periodNs uint64) bool {
	var beat timeout.Callback
	beat = func(any) {
		k.beats.Add(1)
		if !k.Timeouts.AddTimer(beat, nil, periodNs) {
			k.beatStalled.Store(true)
		}
	}
	return k.Timeouts.AddTimer(beat, nil, periodNs)
}

// Beats is how many heartbeats have fired.
func (k *Kernel) Beats() uint64 {
	return k.beats.Load()
}

// Poll does the mainline half of the interrupt work: it prints log output
// held back by handlers and reports new heartbeats.  Never call it from an
// interrupt handler.
func (k *Kernel) Poll() {
	k.drainIRQLog()
	if b := k.beats.Load(); b != k.beatsLogged {
		k.beatsLogged = b
		s := k.Console.Stats()
		trust.Statsf("console", "beat %d: irq %d rx %d tx %d", b, s.Interrupts, s.Received, s.Sent)
	}
	if k.beatStalled.Load() && !k.stallReported {
		k.stallReported = true
		trust.Warnf("heartbeat stopped, no timeout slots left")
	}
}

func (k *Kernel) drainIRQLog() {
	var buf [64]byte
	for {
		state := k.cpu.DisableInterrupts()
		n := 0
		for n < len(buf) {
			c, ok := k.irqLog.Pop()
			if !ok {
				break
			}
			buf[n] = c
			n++
		}
		k.cpu.RestoreInterrupts(state)
		if n == 0 {
			break
		}
		k.Console.Write(buf[:n])
	}
	if lost := k.irqLogDropped.Swap(0); lost > 0 {
		trust.Warnf("%d bytes of interrupt log dropped", lost)
	}
}

// Sleep waits for an interrupt unless there is already mainline work: input
// to read, something for Poll, or ready reporting true.  Interrupts are
// masked across the check, so one that lands after it still wakes the core
// and is taken when they are restored.
func (k *Kernel) Sleep(ready func() bool) {
	state := k.cpu.DisableInterrupts()
	if !k.workPending() && (ready == nil || !ready()) {
		k.cpu.WaitForInterrupt()
	}
	k.cpu.RestoreInterrupts(state)
}

func (k *Kernel) workPending() bool {
	return k.Console.Buffered() > 0 ||
		!k.irqLog.Empty() ||
		k.beats.Load() != k.beatsLogged ||
		(k.beatStalled.Load() && !k.stallReported)
}

// consoleLog is the trust sink when logs go to the console.  Output from a
// handler is parked in the kernel's ring; the console itself is only
// written from the mainline.
type consoleLog struct {
	k *Kernel
}

func (l consoleLog) Write(p []byte) (int, error) {
	k := l.k
	if !k.inIRQ.Load() {
		return k.Console.Write(p)
	}
	for i, c := range p {
		if !k.irqLog.Push(c) {
			k.irqLogDropped.Add(uint64(len(p) - i))
			break
		}
	}
	return len(p), nil
}
