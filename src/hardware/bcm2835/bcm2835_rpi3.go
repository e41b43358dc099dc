//go:build rpi3

package bcm2835

import (
	"unsafe"

	"quietude/src/hardware/rpi"
)

var Aux *AuxPeripheralsRegisterMap = (*AuxPeripheralsRegisterMap)(unsafe.Pointer(rpi.MemoryMappedIO + 0x00215000))
var GPIO *GPIORegisterMap = (*GPIORegisterMap)(unsafe.Pointer(rpi.MemoryMappedIO + 0x00200000))
var InterruptController *IRQRegisterMap = (*IRQRegisterMap)(unsafe.Pointer(rpi.MemoryMappedIO + 0xB200))
var PowerManagement *PowerManagementRegisterMap = (*PowerManagementRegisterMap)(unsafe.Pointer(rpi.MemoryMappedIO + 0x00100000))

// MMIO returns the board's own peripherals.
func MMIO() *Board {
	return &Board{
		Aux:                 Aux,
		GPIO:                GPIO,
		InterruptController: InterruptController,
		PowerManagement:     PowerManagement,
	}
}
