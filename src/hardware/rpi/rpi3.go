// Package rpi holds the properties of the Raspberry Pi 3 *model* that the
// peripheral packages need: where the peripherals live and how fast the
// clocks that feed them run.
package rpi

// MemoryMappedIO is the ARM physical address of the BCM2837 peripheral
// window (bus address 0x7E000000).
const MemoryMappedIO = uintptr(0x3F000000)

// LocalPeripherals is the base of the per-core QA7 block (core timers,
// mailboxes, interrupt source registers).
const LocalPeripherals = uintptr(0x40000000)

// CoreClockHz is the VPU core clock the mini UART baud generator divides.
// The firmware default with core_freq unset.
const CoreClockHz = 250_000_000
