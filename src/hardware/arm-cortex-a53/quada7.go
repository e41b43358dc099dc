package arm_cortex_a53

import "quietude/src/hardware/mmio"

// QuadA7RegisterMap is the per-core "local" interrupt and timer block of the
// BCM2836/7.  QA7_rev3.4.pdf
type QuadA7RegisterMap struct {
	Control                        mmio.Register32 //0x00
	unused                         uint32          //0x04
	Prescaler                      mmio.Register32 //0x08
	GPUInterruptsRouting           mmio.Register32 //0x0C
	PerfMonInterruptsSet           mmio.Register32 //0x10
	PerfMonInterruptsClear         mmio.Register32 //0x14
	unused0                        uint32          //0x18
	CoreTimerLower32               mmio.Register32 //0x1C
	CoreTimerUpper32               mmio.Register32 //0x20
	LocalInterruptRouting          mmio.Register32 //0x24
	unknown0                       uint32          //0x28
	AxiOutstandingCounters         mmio.Register32 //0x2C
	AxiOutstandingInterrupts       mmio.Register32 //0x30
	LocalTimerControlStatus        mmio.Register32 //0x34
	LocalTimerWriteFlags           mmio.Register32 //0x38
	unused1                        uint32          //0x3C
	Core0TimerInterruptControl     mmio.Register32 //0x40
	Core1TimerInterruptControl     mmio.Register32 //0x44
	Core2TimerInterruptControl     mmio.Register32 //0x48
	Core3TimerInterruptControl     mmio.Register32 //0x4C
	Core0MailboxesInterruptControl mmio.Register32 //0x50
	Core1MailboxesInterruptControl mmio.Register32 //0x54
	Core2MailboxesInterruptControl mmio.Register32 //0x58
	Core3MailboxesInterruptControl mmio.Register32 //0x5C
	Core0IRQSource                 mmio.Register32 //0x60
	Core1IRQSource                 mmio.Register32 //0x64
	Core2IRQSource                 mmio.Register32 //0x68
	Core3IRQSource                 mmio.Register32 //0x6C
	Core0FIQSource                 mmio.Register32 //0x70
	Core1FIQSource                 mmio.Register32 //0x74
	Core2FIQSource                 mmio.Register32 //0x78
	Core3FIQSource                 mmio.Register32 //0x7C
}

// core timer interrupt control: which generic timer interrupts reach the
// core as IRQs.  The same bit positions are used in CoreNIRQSource.
const QuadA7SecurePhysicalTimer = 1 << 0
const QuadA7NonSecurePhysicalTimer = 1 << 1
const QuadA7HypervisorTimer = 1 << 2
const QuadA7VirtualTimer = 1 << 3

// CoreNIRQSource only
const QuadA7GPUInterrupt = 1 << 8
