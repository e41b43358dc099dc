// Package timeout shares the core's one physical timer comparator between
// up to MaxEntries one-shot callbacks.  The comparator always holds the
// earliest pending deadline; with nothing pending the timer interrupt is
// masked.
package timeout

import (
	"math"

	arm64 "quietude/src/hardware/arm-cortex-a53"
	"quietude/src/gen"
	"quietude/src/lib/trust"
)

const MaxEntries = 16

// Timer is the generic timer as seen from EL1.
type Timer interface {
	Counter() uint64
	Frequency() uint64
	SetCompare(ticks uint64)
	SetControl(ctl uint64)
}

// Masker saves and masks the core's interrupt state, then puts it back.
type Masker interface {
	DisableInterrupts() uintptr
	RestoreInterrupts(state uintptr)
}

// Callback runs in interrupt context.  It may call AddTimer but must not
// block.
type Callback func(arg any)

type entry struct {
	deadline uint64 // counter ticks
	cb       Callback
	arg      any
}

var byDeadline = gen.CompareBy(func(e entry) uint64 { return e.deadline })

// Queue is the set of pending timeouts.  There is one per core.
type Queue struct {
	cpu   Masker
	timer Timer

	storage [MaxEntries]entry
	heap    []entry
}

// New returns an empty queue and leaves the timer masked.
func New(cpu Masker, timer Timer) *Queue {
	q := &Queue{cpu: cpu, timer: timer}
	q.heap = q.storage[:0]
	timer.SetControl(arm64.TimerMasked)
	return q
}

// EnableCoreTimerInterrupt routes the non-secure physical timer of core 0 to
// its IRQ line.  Call it once at boot.
func EnableCoreTimerInterrupt(local *arm64.QuadA7RegisterMap) {
	local.Core0TimerInterruptControl.SetBits(arm64.QuadA7NonSecurePhysicalTimer)
}

// AddTimer arranges for cb(arg) to run afterNs nanoseconds from now, rounded
// up to the next counter tick.  It returns false, changing nothing, when
// MaxEntries timeouts are already pending.  There is no way to cancel.
func (q *Queue) AddTimer(cb Callback, arg any, afterNs uint64) bool {
	freq := q.timer.Frequency()

	state := q.cpu.DisableInterrupts()
	if len(q.heap) == MaxEntries {
		q.cpu.RestoreInterrupts(state)
		trust.Warnf("timeout: %d timeouts already pending, refusing another", MaxEntries)
		return false
	}
	now := q.timer.Counter()
	deadline := now + arm64.TicksFor(afterNs, freq)
	if deadline < now {
		deadline = math.MaxUint64
	}
	if len(q.heap) == 0 || deadline < q.heap[0].deadline {
		q.timer.SetCompare(deadline)
	}
	q.heap = gen.HeapPush(q.heap, entry{deadline: deadline, cb: cb, arg: arg}, byDeadline)
	pending := len(q.heap)
	q.timer.SetControl(arm64.TimerArmed)
	q.cpu.RestoreInterrupts(state)
	trust.Debugf("timeout: armed for tick %d, %d pending", deadline, pending)
	return true
}

// HandleInterrupt fires the earliest timeout.  Call it from the IRQ handler
// when the core timer interrupt is pending.  The entry is removed and the
// comparator moved on before the callback runs, so the callback sees a
// consistent queue if it adds timeouts of its own.
func (q *Queue) HandleInterrupt() {
	if len(q.heap) == 0 {
		q.timer.SetControl(arm64.TimerMasked)
		return
	}
	if q.heap[0].deadline > q.timer.Counter() {
		q.rearm()
		return
	}
	var e entry
	e, q.heap = gen.HeapPop(q.heap, byDeadline)
	q.rearm()
	e.cb(e.arg)
}

func (q *Queue) rearm() {
	if len(q.heap) == 0 {
		q.timer.SetControl(arm64.TimerMasked)
		return
	}
	q.timer.SetCompare(q.heap[0].deadline)
}

// Pending is the number of timeouts that have not fired.
func (q *Queue) Pending() int {
	state := q.cpu.DisableInterrupts()
	defer q.cpu.RestoreInterrupts(state)
	return len(q.heap)
}

// Next returns the earliest deadline in counter ticks.
func (q *Queue) Next() (uint64, bool) {
	state := q.cpu.DisableInterrupts()
	defer q.cpu.RestoreInterrupts(state)
	if len(q.heap) == 0 {
		return 0, false
	}
	return q.heap[0].deadline, true
}
