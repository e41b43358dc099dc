//go:build rpi3

package mmio

import "runtime/volatile"

// Register32 is a memory-mapped 32 bit device register.  On the board every
// access is a real volatile load or store.
type Register32 = volatile.Register32
