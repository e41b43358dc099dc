//go:build !rpi3

package arm_cortex_a53

import "sync/atomic"

// Core stands in for the processor in host builds.  It counts the barriers
// and waits it is asked for and runs Idle on every WFI, which is where a
// simulated machine delivers interrupts.  Unmasked runs whenever
// RestoreInterrupts opens the core up again, so an interrupt that arrived
// while masked is taken then.
type Core struct {
	Timer    *GenericTimer
	Idle     func()
	Unmasked func()

	writeBarriers atomic.Uint64
	readBarriers  atomic.Uint64
	waits         atomic.Uint64
	delayed       atomic.Uint64
	daif          atomic.Uintptr
}

// daif bits as they appear in the DAIF register
const daifMaskAll = 0xf << 6

func (c *Core) WriteBarrier() {
	c.writeBarriers.Add(1)
}

func (c *Core) ReadBarrier() {
	c.readBarriers.Add(1)
}

func (c *Core) WaitForInterrupt() {
	c.waits.Add(1)
	if c.Idle != nil {
		c.Idle()
	}
}

// DelayNanos advances the timer, if there is one, by the time asked for.
func (c *Core) DelayNanos(ns uint64) {
	c.delayed.Add(ns)
	if c.Timer != nil {
		c.Timer.Advance(TicksFor(ns, c.Timer.Frequency()))
	}
}

func (c *Core) DisableInterrupts() uintptr {
	return c.daif.Swap(daifMaskAll)
}

func (c *Core) RestoreInterrupts(state uintptr) {
	c.daif.Store(state)
	if state == 0 && c.Unmasked != nil {
		c.Unmasked()
	}
}

// InterruptsMasked reports whether an interrupt could be taken right now.
func (c *Core) InterruptsMasked() bool {
	return c.daif.Load() != 0
}

func (c *Core) WriteBarriers() uint64 { return c.writeBarriers.Load() }
func (c *Core) ReadBarriers() uint64  { return c.readBarriers.Load() }
func (c *Core) Waits() uint64         { return c.waits.Load() }
func (c *Core) DelayedNanos() uint64  { return c.delayed.Load() }

// TakeException enters the handler installed for vector t, the way the
// vector table stub does on the board.
func TakeException(t uint64, esr uint64, addr uint64) {
	dispatchException(t, esr, addr)
}
