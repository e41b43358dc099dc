//go:build !rpi3

package bcm2835sim

import (
	"testing"

	arm64 "quietude/src/hardware/arm-cortex-a53"
	"quietude/src/hardware/bcm2835"
)

func enabledUART(t *testing.T) (*bcm2835.AuxPeripheralsRegisterMap, *MiniUART) {
	t.Helper()
	b := bcm2835.NewBoard()
	u := NewMiniUART(b.Aux)
	b.Aux.Enables.Set(bcm2835.PeripheralMiniUART)
	b.Aux.MiniUARTExtraControl.Set(bcm2835.ReceiveEnable | bcm2835.TransmitEnable)
	return b.Aux, u
}

func TestLoopbackShiftsOneBytePerStep(t *testing.T) {
	aux, u := enabledUART(t)
	u.Loopback = true
	u.StatusReadsPerStep = 0
	for _, b := range []byte("hi") {
		aux.MiniUARTData.Set(uint32(b))
	}
	if aux.MiniUARTLineStatus.HasBits(bcm2835.TransmitterIdle) {
		t.Errorf("transmitter idle with bytes queued")
	}
	u.Step()
	if string(u.Wire()) != "h" || u.ReceiveFIFOLen() != 1 {
		t.Errorf("after one step wire=%q rx=%d", u.Wire(), u.ReceiveFIFOLen())
	}
	u.Step()
	lsr := aux.MiniUARTLineStatus.Get()
	if lsr&bcm2835.TransmitterIdle == 0 || lsr&bcm2835.ReceivedDataAvailable == 0 {
		t.Errorf("unexpected line status %#x", lsr)
	}
	got := []byte{byte(aux.MiniUARTData.Get()), byte(aux.MiniUARTData.Get())}
	if string(got) != "hi" {
		t.Errorf("expected hi back but got %q", got)
	}
}

func TestFIFOLimitsAndClear(t *testing.T) {
	aux, u := enabledUART(t)
	u.StatusReadsPerStep = 0
	for i := 0; i < 10; i++ {
		aux.MiniUARTData.Set(uint32(i))
	}
	if u.TransmitFIFOLen() != bcm2835.MiniUARTFIFODepth {
		t.Errorf("transmit FIFO holds %d", u.TransmitFIFOLen())
	}
	if aux.MiniUARTLineStatus.HasBits(bcm2835.TransmitFIFOSpaceAvailable) {
		t.Errorf("full FIFO reports space")
	}
	u.Inject(make([]byte, 12))
	for i := 0; i < 12; i++ {
		u.Step()
	}
	if u.ReceiveFIFOLen() != bcm2835.MiniUARTFIFODepth || u.Overruns() != 4 {
		t.Errorf("rx=%d overruns=%d", u.ReceiveFIFOLen(), u.Overruns())
	}
	aux.MiniUARTInterruptIdentify.Set(bcm2835.ClearFIFOs)
	if u.ReceiveFIFOLen() != 0 || u.TransmitFIFOLen() != 0 || u.FIFOClears() != 1 {
		t.Errorf("FIFOs not cleared")
	}
}

func TestEnableGlitch(t *testing.T) {
	b := bcm2835.NewBoard()
	u := NewMiniUART(b.Aux)
	u.EnableGlitch = true
	b.Aux.Enables.Set(bcm2835.PeripheralMiniUART)
	b.Aux.MiniUARTExtraControl.Set(bcm2835.ReceiveEnable)
	if u.ReceiveFIFOLen() != 1 || b.Aux.MiniUARTData.Get() != GlitchByte {
		t.Errorf("expected the enable glitch byte")
	}
}

func TestPullRecorder(t *testing.T) {
	b := bcm2835.NewBoard()
	p := NewPullRecorder(b.GPIO)
	b.GPIO.SetPull(bcm2835.GPIOPullOff, 1<<14, func() {})
	if p.Pull(14) != bcm2835.GPIOPullOff || p.Pull(15) != bcm2835.GPIOPullDown {
		t.Errorf("pin 14 %d pin 15 %d", p.Pull(14), p.Pull(15))
	}
	expected := []PullWrite{{false, 0}, {true, 1 << 14}, {false, 0}, {true, 0}}
	w := p.Writes()
	if len(w) != len(expected) {
		t.Fatalf("expected %d writes but got %v", len(expected), w)
	}
	for i := range w {
		if w[i] != expected[i] {
			t.Errorf("write %d: expected %+v but got %+v", i, expected[i], w[i])
		}
	}
}

func TestMachineDeliversTimerOnWait(t *testing.T) {
	m := NewMachine()
	m.TicksPerWait = 100
	fired := 0
	m.IRQ = func() {
		if !m.Core.InterruptsMasked() {
			t.Errorf("handler ran with interrupts unmasked")
		}
		fired++
		m.Timer.SetControl(arm64.TimerMasked)
	}
	m.Local.Core0TimerInterruptControl.Set(arm64.QuadA7NonSecurePhysicalTimer)
	m.Timer.SetCompare(250)
	m.Timer.SetControl(arm64.TimerArmed)
	m.Core.WaitForInterrupt()
	m.Core.WaitForInterrupt()
	if fired != 0 {
		t.Errorf("fired early at %d", m.Timer.Counter())
	}
	m.Core.WaitForInterrupt()
	if fired != 1 || m.Taken() != 1 {
		t.Errorf("expected one interrupt but got %d", fired)
	}
}

func TestMachineStalls(t *testing.T) {
	m := NewMachine()
	m.StallLimit = 3
	defer func() {
		if recover() == nil {
			t.Errorf("waiting forever should panic")
		}
	}()
	for {
		m.Core.WaitForInterrupt()
	}
}

func TestMaskedWaitTakesInterruptOnUnmask(t *testing.T) {
	m := NewMachine()
	m.TicksPerWait = 100
	m.StallLimit = 3
	fired := 0
	m.IRQ = func() {
		fired++
		m.Timer.SetControl(arm64.TimerMasked)
	}
	m.Local.Core0TimerInterruptControl.Set(arm64.QuadA7NonSecurePhysicalTimer)
	m.Timer.SetCompare(100)
	m.Timer.SetControl(arm64.TimerArmed)

	state := m.Core.DisableInterrupts()
	// the interrupt arrives during this wait but must not be taken yet
	m.Core.WaitForInterrupt()
	if fired != 0 {
		t.Fatalf("interrupt taken while masked")
	}
	// still pending, so the core keeps waking instead of stalling
	for i := 0; i < 5; i++ {
		m.Core.WaitForInterrupt()
	}
	m.Core.RestoreInterrupts(state)
	if fired != 1 {
		t.Errorf("expected the pending interrupt on unmask, fired %d", fired)
	}
}
