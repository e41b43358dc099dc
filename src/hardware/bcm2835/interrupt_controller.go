package bcm2835

import "quietude/src/hardware/mmio"

// IRQRegisterMap is the BCM2835 ("level 2") interrupt controller.  Only
// core 0 sees its output on the Pi 3 unless GPU routing is changed.
type IRQRegisterMap struct {
	IRQBasicPending  mmio.Register32 //0x00
	IRQPending1      mmio.Register32 //0x04
	IRQPending2      mmio.Register32 //0x08
	FIQControl       mmio.Register32 //0x0C
	EnableIRQs1      mmio.Register32 //0x10
	EnableIRQs2      mmio.Register32 //0x14
	EnableBasicIRQs  mmio.Register32 //0x18
	DisableIRQs1     mmio.Register32 //0x1C
	DisableIRQs2     mmio.Register32 //0x20
	DisableBasicIRQs mmio.Register32 //0x24
}

// for the interrupt numbers for use with interrupt controller
const AuxInterrupt = 1 << 29

const SystemTimerIRQ1 = 1 << 1
const SystemTimerIRQ3 = 1 << 3

const BasicArmTimerIRQ = 1 << 0

// pending bit in IRQBasicPending meaning "look in IRQPending1"
const BasicPending1 = 1 << 8
