package bcm2835

import "quietude/src/hardware/mmio"

// PowerManagementRegisterMap is the part of the PM block that holds the
// watchdog.  Every write must carry PowerManagementPassword in the top byte
// or the block ignores it.
type PowerManagementRegisterMap struct {
	reserved0 [7]uint32       //0x00-0x18
	Reset     mmio.Register32 //0x1C RSTC
	Status    mmio.Register32 //0x20 RSTS
	Watchdog  mmio.Register32 //0x24 WDOG
}

const PowerManagementPassword = 0x5a000000

// full reset configuration for RSTC
const ResetFullReset = 0x20
const resetConfigMask = 0x30

// ticks of the watchdog (~16us each) before the reset fires
const WatchdogRebootTicks = 10

// Reboot arms the watchdog with a short timeout and asks for a full reset
// when it expires.  On the Pi the caller should stop doing anything useful.
func (p *PowerManagementRegisterMap) Reboot() {
	p.Watchdog.Set(PowerManagementPassword | WatchdogRebootTicks)
	rstc := p.Reset.Get() &^ resetConfigMask
	p.Reset.Set(PowerManagementPassword | rstc | ResetFullReset)
}

// CancelReboot clears a pending watchdog reset if it has not fired yet.
func (p *PowerManagementRegisterMap) CancelReboot() {
	p.Reset.Set(PowerManagementPassword | (p.Reset.Get() &^ resetConfigMask))
	p.Watchdog.Set(PowerManagementPassword)
}
