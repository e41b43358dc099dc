//go:build rpi3

package arm_cortex_a53

import (
	"unsafe"

	"quietude/src/hardware/rpi"
)

var QuadA7 *QuadA7RegisterMap = (*QuadA7RegisterMap)(unsafe.Pointer(rpi.LocalPeripherals))

// LocalPeripherals returns the memory mapped QA7 block.
func LocalPeripherals() *QuadA7RegisterMap {
	return QuadA7
}
