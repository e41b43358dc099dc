//go:build rpi3

package arm_cortex_a53

import "device/arm"

// Core is the processor we are running on.  It carries no state on the
// board; every method is a handful of instructions.
type Core struct {
	Timer GenericTimer
}

// WriteBarrier orders our earlier stores before later peripheral accesses.
func (Core) WriteBarrier() {
	arm.Asm("dsb st")
}

// ReadBarrier orders peripheral reads before anything that follows.
func (Core) ReadBarrier() {
	arm.Asm("dsb ld")
}

func (Core) WaitForInterrupt() {
	arm.Asm("wfi")
}

// DelayNanos busy waits on the physical counter.
func (c Core) DelayNanos(ns uint64) {
	end := c.Timer.Counter() + TicksFor(ns, c.Timer.Frequency())
	for c.Timer.Counter() < end {
	}
}

// DisableInterrupts masks D, A, I and F and returns the DAIF bits as they
// were so the caller can put them back with RestoreInterrupts.
func (Core) DisableInterrupts() uintptr {
	var state uintptr
	arm.AsmFull(`mrs x27, daif
		str x27,{s}
		msr daifset, #0xf`, map[string]interface{}{"s": &state})
	return state
}

func (Core) RestoreInterrupts(state uintptr) {
	arm.AsmFull("msr daif, {s}", map[string]interface{}{"s": state})
}

// MaskDAIF sets the value of the four D-A-I-F interupt masking on the ARM
func MaskDAIF() {
	arm.Asm("msr    daifset, #0xf")
}

// UnmaskDAIF clears the value of the four D-A-I-F interupt masking on the ARM
func UnmaskDAIF() {
	arm.Asm("msr    daifclr, #0xf")
}

//go:extern vectors
var vectors uint64

// InitInterrupts points VBAR_EL1 at the vector table and leaves everything
// masked.  Handlers are installed with SetExceptionHandler* and the caller
// unmasks when the devices are ready.
func InitInterrupts() {
	for i := 0; i < len(excptrs); i++ {
		excptrs[i] = unexpectedException
	}
	arm.Asm("adr    x0, vectors")
	arm.Asm("msr    vbar_el1, x0")
	MaskDAIF()
}

// the vector table stubs save state and call here with the vector index
//go:export raw_exception_handler
func rawExceptionHandler(t uint64, esr uint64, addr uint64) {
	dispatchException(t, esr, addr)
}
