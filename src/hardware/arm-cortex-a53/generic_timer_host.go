//go:build !rpi3

package arm_cortex_a53

import "sync"

// GenericTimer models the EL1 physical timer.  Time only moves when Advance
// is called.
type GenericTimer struct {
	mu      sync.Mutex
	count   uint64
	freq    uint64
	compare uint64
	control uint64
}

// NewGenericTimer returns a timer at count zero ticking at freq Hz.
func NewGenericTimer(freq uint64) *GenericTimer {
	return &GenericTimer{freq: freq, control: TimerMasked}
}

func (g *GenericTimer) Counter() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.count
}

func (g *GenericTimer) Frequency() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.freq & 0xffffffff
}

func (g *GenericTimer) SetCompare(ticks uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.compare = ticks
}

func (g *GenericTimer) Compare() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.compare
}

func (g *GenericTimer) SetControl(ctl uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.control = ctl &^ TimerIStatus
}

// Control includes ISTATUS computed from the current count.
func (g *GenericTimer) Control() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := g.control
	if g.count >= g.compare {
		c |= TimerIStatus
	}
	return c
}

// Advance moves the counter forward.
func (g *GenericTimer) Advance(ticks uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.count += ticks
}

// Pending reports whether the timer is asserting its interrupt line: enabled,
// not masked and the count has reached the comparator.
func (g *GenericTimer) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.control&TimerEnable != 0 && g.control&TimerIMask == 0 && g.count >= g.compare
}
