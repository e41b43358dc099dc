//go:build !rpi3

package bcm2835sim

import (
	"sync"

	"quietude/src/hardware/bcm2835"
	"quietude/src/hardware/mmio"
)

// PullWrite is one write to GPPUD or GPPUDCLK0.
type PullWrite struct {
	Clock bool // false for GPPUD, true for GPPUDCLK0
	Value uint32
}

// PullRecorder remembers the pull sequencer writes and the pull each pin
// ends up with once it has been clocked.
type PullRecorder struct {
	mu     sync.Mutex
	gpio   *bcm2835.GPIORegisterMap
	writes []PullWrite
	pulls  map[uint8]bcm2835.GPIOPull
}

func NewPullRecorder(gpio *bcm2835.GPIORegisterMap) *PullRecorder {
	p := &PullRecorder{gpio: gpio, pulls: map[uint8]bcm2835.GPIOPull{}}
	gpio.PullUpDownEnable.Attach(&mmio.Hook{Write: func(v uint32) {
		p.mu.Lock()
		defer p.mu.Unlock()
		gpio.PullUpDownEnable.Store(v)
		p.writes = append(p.writes, PullWrite{Value: v})
	}})
	gpio.PullUpDownEnableClock0.Attach(&mmio.Hook{Write: func(v uint32) {
		p.mu.Lock()
		defer p.mu.Unlock()
		gpio.PullUpDownEnableClock0.Store(v)
		p.writes = append(p.writes, PullWrite{Clock: true, Value: v})
		control := bcm2835.GPIOPull(gpio.PullUpDownEnable.Load())
		for pin := uint8(0); pin < 32; pin++ {
			if v&(1<<pin) != 0 {
				p.pulls[pin] = control
			}
		}
	}})
	return p
}

func (p *PullRecorder) Writes() []PullWrite {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PullWrite(nil), p.writes...)
}

// Pull returns the pull latched into pin.  Pins never clocked report the
// reset default, which is pull down for the UART pins.
func (p *PullRecorder) Pull(pin uint8) bcm2835.GPIOPull {
	p.mu.Lock()
	defer p.mu.Unlock()
	if v, ok := p.pulls[pin]; ok {
		return v
	}
	return bcm2835.GPIOPullDown
}

// Function reads back the FSEL field of pin.
func Function(gpio *bcm2835.GPIORegisterMap, pin uint8) bcm2835.GPIOMode {
	return bcm2835.GPIOMode(gpio.FuncSelect[pin/10].Get()>>((pin%10)*3)) & 7
}
