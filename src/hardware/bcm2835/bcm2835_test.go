//go:build !rpi3

package bcm2835

import (
	"testing"
	"unsafe"
)

func TestRegisterOffsets(t *testing.T) {
	var aux AuxPeripheralsRegisterMap
	checkOffset(t, "MiniUARTData", unsafe.Offsetof(aux.MiniUARTData), 0x40)
	checkOffset(t, "MiniUARTLineStatus", unsafe.Offsetof(aux.MiniUARTLineStatus), 0x54)
	checkOffset(t, "MiniUARTBAUD", unsafe.Offsetof(aux.MiniUARTBAUD), 0x68)
	var gpio GPIORegisterMap
	checkOffset(t, "PullUpDownEnable", unsafe.Offsetof(gpio.PullUpDownEnable), 0x94)
	checkOffset(t, "PullUpDownEnableClock0", unsafe.Offsetof(gpio.PullUpDownEnableClock0), 0x98)
	var ic IRQRegisterMap
	checkOffset(t, "EnableIRQs1", unsafe.Offsetof(ic.EnableIRQs1), 0x10)
}

func checkOffset(t *testing.T, name string, got uintptr, want uintptr) {
	t.Helper()
	if got != want {
		t.Errorf("%s is at offset %#x, expected %#x", name, got, want)
	}
}

func TestSelectFunction(t *testing.T) {
	b := NewBoard()
	b.GPIO.FuncSelect[1].Set(0xffffffff)
	if !b.GPIO.SelectFunction(MiniUARTTransmitPin, GPIOAltFunc5) {
		t.Fatalf("pin 14 rejected")
	}
	if !b.GPIO.SelectFunction(MiniUARTReceivePin, GPIOAltFunc5) {
		t.Fatalf("pin 15 rejected")
	}
	// bits 12-17 hold pins 14 and 15, everything else untouched
	if got := b.GPIO.FuncSelect[1].Get(); got != 0xfffd2fff {
		t.Errorf("unexpected FSEL1 %#x", got)
	}
	if b.GPIO.SelectFunction(54, GPIOOutput) {
		t.Errorf("pin 54 should not exist")
	}
}

func TestBaudDivisor(t *testing.T) {
	if d := BaudDivisor(250_000_000, 115200); d != 270 {
		t.Errorf("expected divisor 270 for 115200 baud but got %d", d)
	}
}

func TestReboot(t *testing.T) {
	var pm PowerManagementRegisterMap
	checkOffset(t, "Reset", unsafe.Offsetof(pm.Reset), 0x1c)
	checkOffset(t, "Watchdog", unsafe.Offsetof(pm.Watchdog), 0x24)
	pm.Reset.Set(0x31)
	pm.Reboot()
	if got := pm.Watchdog.Get(); got != 0x5a00000a {
		t.Errorf("watchdog %#x, expected 0x5a00000a", got)
	}
	if got := pm.Reset.Get(); got != 0x5a000021 {
		t.Errorf("reset %#x, expected 0x5a000021", got)
	}
	pm.CancelReboot()
	if got := pm.Reset.Get(); got != 0x5a000001 {
		t.Errorf("reset after cancel %#x, expected 0x5a000001", got)
	}
}
