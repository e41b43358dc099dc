//go:build !rpi3

package arm_cortex_a53

// LocalPeripherals returns a fresh QA7 block in ordinary memory.
func LocalPeripherals() *QuadA7RegisterMap {
	return &QuadA7RegisterMap{}
}
