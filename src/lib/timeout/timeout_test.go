//go:build !rpi3

package timeout

import (
	"math"
	"strings"
	"testing"

	arm64 "quietude/src/hardware/arm-cortex-a53"
	"quietude/src/hardware/bcm2835/bcm2835sim"
	"quietude/src/lib/trust"
)

const ms = 1_000_000

func newQueue(t *testing.T) (*bcm2835sim.Machine, *Queue) {
	t.Helper()
	m := bcm2835sim.NewMachine()
	m.TicksPerWait = 1000
	q := New(m.Core, m.Timer)
	EnableCoreTimerInterrupt(m.Local)
	m.IRQ = func() {
		if m.Local.Core0IRQSource.HasBits(arm64.QuadA7NonSecurePhysicalTimer) {
			q.HandleInterrupt()
		}
	}
	return m, q
}

type firing struct {
	name    string
	arg     any
	at      uint64
	compare uint64
	control uint64
}

func TestScenarioFiresInDeadlineOrder(t *testing.T) {
	m, q := newQueue(t)
	var fired []firing
	record := func(name string) Callback {
		return func(arg any) {
			fired = append(fired, firing{name, arg, m.Timer.Counter(),
				m.Timer.Compare(), m.Timer.Control() &^ arm64.TimerIStatus})
		}
	}
	if !q.AddTimer(record("A"), 1, 50*ms) ||
		!q.AddTimer(record("B"), "two", 10*ms) ||
		!q.AddTimer(record("C"), 3.0, 30*ms) {
		t.Fatalf("AddTimer refused with room to spare")
	}
	for len(fired) < 3 {
		m.Core.WaitForInterrupt()
	}
	for i := 0; i < 100; i++ {
		m.Core.WaitForInterrupt()
	}
	if len(fired) != 3 {
		t.Fatalf("expected 3 firings but got %d", len(fired))
	}
	// 19.2MHz: 10ms is 192000 ticks
	expected := []firing{
		{"B", "two", 192000, 576000, arm64.TimerArmed},
		{"C", 3.0, 576000, 960000, arm64.TimerArmed},
		{"A", 1, 960000, 960000, arm64.TimerMasked},
	}
	for i, e := range expected {
		f := fired[i]
		if f.name != e.name || f.arg != e.arg {
			t.Errorf("firing %d: expected %s(%v) but got %s(%v)", i, e.name, e.arg, f.name, f.arg)
		}
		if f.at < e.at || f.at >= e.at+1000 {
			t.Errorf("firing %d at tick %d, deadline %d", i, f.at, e.at)
		}
		if f.compare != e.compare || f.control != e.control {
			t.Errorf("firing %d left comparator %d control %#x, expected %d %#x",
				i, f.compare, f.control, e.compare, e.control)
		}
	}
	if q.Pending() != 0 {
		t.Errorf("queue not empty after all firings")
	}
}

func TestAddTimerReprogramsOnlyForEarlier(t *testing.T) {
	m, q := newQueue(t)
	if m.Timer.Control()&^arm64.TimerIStatus != arm64.TimerMasked {
		t.Errorf("new queue should leave the timer masked, control %#x", m.Timer.Control())
	}
	nop := func(any) {}
	q.AddTimer(nop, nil, 50*ms)
	checkCompare(t, m, 960000)
	q.AddTimer(nop, nil, 10*ms)
	checkCompare(t, m, 192000)
	q.AddTimer(nop, nil, 30*ms)
	checkCompare(t, m, 192000)
	if m.Timer.Control()&^arm64.TimerIStatus != arm64.TimerArmed {
		t.Errorf("timer should be armed, control %#x", m.Timer.Control())
	}
	if next, ok := q.Next(); !ok || next != 192000 {
		t.Errorf("Next returned %d, %v", next, ok)
	}
}

func checkCompare(t *testing.T, m *bcm2835sim.Machine, want uint64) {
	t.Helper()
	if got := m.Timer.Compare(); got != want {
		t.Errorf("comparator at %d, expected %d", got, want)
	}
}

func TestCapacityRefusal(t *testing.T) {
	m, q := newQueue(t)
	fired := map[int]int{}
	for i := 0; i < MaxEntries; i++ {
		if !q.AddTimer(func(arg any) { fired[arg.(int)]++ }, i, uint64(i+1)*ms) {
			t.Fatalf("timeout %d refused", i)
		}
	}
	compare := m.Timer.Compare()
	if q.AddTimer(func(any) { t.Errorf("refused timeout fired") }, -1, 0) {
		t.Errorf("timeout past capacity accepted")
	}
	if q.Pending() != MaxEntries || m.Timer.Compare() != compare {
		t.Errorf("refusal changed the queue: pending %d comparator %d", q.Pending(), m.Timer.Compare())
	}
	for q.Pending() > 0 {
		m.Core.WaitForInterrupt()
	}
	for i := 0; i < MaxEntries; i++ {
		if fired[i] != 1 {
			t.Errorf("timeout %d fired %d times", i, fired[i])
		}
	}
}

func TestCallbackMayAddTimer(t *testing.T) {
	m, q := newQueue(t)
	var order []string
	q.AddTimer(func(any) {
		order = append(order, "first")
		if !q.AddTimer(func(any) { order = append(order, "chained") }, nil, 5*ms) {
			t.Errorf("AddTimer from a callback refused")
		}
	}, nil, 20*ms)
	q.AddTimer(func(any) { order = append(order, "last") }, nil, 40*ms)
	for q.Pending() > 0 || len(order) < 3 {
		m.Core.WaitForInterrupt()
	}
	if len(order) != 3 || order[0] != "first" || order[1] != "chained" || order[2] != "last" {
		t.Errorf("unexpected order %v", order)
	}
	if m.Core.InterruptsMasked() {
		t.Errorf("interrupts left masked")
	}
}

func TestSpuriousInterrupt(t *testing.T) {
	m, q := newQueue(t)
	called := false
	q.AddTimer(func(any) { called = true }, nil, 10*ms)
	q.HandleInterrupt()
	if called || q.Pending() != 1 {
		t.Errorf("timeout fired before its deadline")
	}
	checkCompare(t, m, 192000)
	// nothing pending at all
	m2, q2 := newQueue(t)
	m2.Timer.SetControl(arm64.TimerArmed)
	q2.HandleInterrupt()
	if m2.Timer.Control()&arm64.TimerIMask == 0 {
		t.Errorf("empty queue should mask the timer")
	}
}

func TestDeadlinePastCounterWrapSaturates(t *testing.T) {
	m, q := newQueue(t)
	m.Timer.Advance(math.MaxUint64 - 10)
	q.AddTimer(func(any) {}, nil, 1*ms)
	checkCompare(t, m, math.MaxUint64)
}

// recorder is a Timer and Masker that logs the order of operations.
type recorder struct {
	ops    []string
	masked bool
}

func (r *recorder) Counter() uint64 {
	if !r.masked {
		r.ops = append(r.ops, "counter-unmasked")
	} else {
		r.ops = append(r.ops, "counter")
	}
	return 1000
}
func (r *recorder) Frequency() uint64 { r.ops = append(r.ops, "frequency"); return 1_000_000_000 }
func (r *recorder) SetCompare(uint64) { r.ops = append(r.ops, "compare") }
func (r *recorder) SetControl(uint64) { r.ops = append(r.ops, "control") }
func (r *recorder) DisableInterrupts() uintptr {
	r.ops = append(r.ops, "mask")
	r.masked = true
	return 0
}
func (r *recorder) RestoreInterrupts(uintptr) {
	r.ops = append(r.ops, "restore")
	r.masked = false
}

func TestAddTimerMasksAroundCounterRead(t *testing.T) {
	r := &recorder{}
	q := New(r, r)
	r.ops = nil
	q.AddTimer(func(any) {}, nil, 1)
	expected := []string{"frequency", "mask", "counter", "compare", "control", "restore"}
	if len(r.ops) != len(expected) {
		t.Fatalf("expected %v but got %v", expected, r.ops)
	}
	for i := range expected {
		if r.ops[i] != expected[i] {
			t.Errorf("step %d: expected %s but got %s", i, expected[i], r.ops[i])
		}
	}
}

// Write lets the recorder stand in as the log sink.
func (r *recorder) Write(p []byte) (int, error) {
	r.ops = append(r.ops, "log "+strings.TrimSpace(string(p)))
	return len(p), nil
}

func TestAddTimerLogsOutsideMask(t *testing.T) {
	r := &recorder{}
	q := New(r, r)
	prevOut := trust.SetOutput(r)
	defer trust.SetOutput(prevOut)
	prevLevel := trust.SetLevel(trust.DebugMask)
	defer trust.SetLevel(prevLevel)
	r.ops = nil
	q.AddTimer(func(any) {}, nil, 5)
	last := len(r.ops) - 1
	if last < 1 || r.ops[last-1] != "restore" {
		t.Fatalf("expected the log line after restore, got %v", r.ops)
	}
	// counter 1000 at 1GHz, 5ns later
	if r.ops[last] != "log DEBUG:timeout: armed for tick 1005, 1 pending" {
		t.Errorf("unexpected log %q", r.ops[last])
	}
}
