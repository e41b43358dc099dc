package arm_cortex_a53

import "quietude/src/lib/trust"

// ExceptionHandler is called with the vector index, ESR_EL1 and FAR_EL1.
type ExceptionHandler func(t uint64, esr uint64, addr uint64)

// indexed like the vector table: 4 groups of sync, irq, fiq, serror
var excptrs = [16]ExceptionHandler{
	unexpectedException, unexpectedException, unexpectedException, unexpectedException,
	unexpectedException, unexpectedException, unexpectedException, unexpectedException,
	unexpectedException, unexpectedException, unexpectedException, unexpectedException,
	unexpectedException, unexpectedException, unexpectedException, unexpectedException,
}

const (
	VectorEl1hSynchronous = 4
	VectorEl1hInterrupts  = 5
)

func SetExceptionHandlerEl1hInterrupts(h ExceptionHandler) {
	excptrs[VectorEl1hInterrupts] = h
}

func SetExceptionHandlerEl1hSynchronous(h ExceptionHandler) {
	excptrs[VectorEl1hSynchronous] = h
}

func dispatchException(t uint64, esr uint64, addr uint64) {
	if t >= uint64(len(excptrs)) {
		trust.Errorf("exception vector %d out of range", t)
		return
	}
	excptrs[t](t, esr, addr)
}

//go:noinline
func unexpectedException(t uint64, esr uint64, addr uint64) {
	trust.Errorf("unexpected exception: %s, ESR 0x%x, ADDR 0x%x",
		entryErrorMessages[t], esr, addr)
}

var entryErrorMessages = []string{
	"SYNC_INVALID_EL1t",
	"IRQ_INVALID_EL1t",
	"FIQ_INVALID_EL1t",
	"ERROR_INVALID_EL1T",

	"SYNC_INVALID_EL1h",
	"IRQ_INVALID_EL1h",
	"FIQ_INVALID_EL1h",
	"ERROR_INVALID_EL1h",

	"SYNC_INVALID_EL0_64",
	"IRQ_INVALID_EL0_64",
	"FIQ_INVALID_EL0_64",
	"ERROR_INVALID_EL0_64",

	"SYNC_INVALID_EL0_32",
	"IRQ_INVALID_EL0_32",
	"FIQ_INVALID_EL0_32",
	"ERROR_INVALID_EL0_32",
}
