package arm_cortex_a53

import (
	"math"
	"math/bits"
)

// TicksFor converts a duration in nanoseconds to counter ticks at freq Hz,
// rounding up so a delay is never shorter than asked.  The product is formed
// in 128 bits; a result that does not fit saturates.
func TicksFor(ns uint64, freq uint64) uint64 {
	hi, lo := bits.Mul64(ns, freq)
	hi, lo = add128(hi, lo, 1e9-1)
	if hi >= 1e9 {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, 1e9)
	return q
}

func add128(hi, lo, n uint64) (uint64, uint64) {
	lo, carry := bits.Add64(lo, n, 0)
	hi, _ = bits.Add64(hi, 0, carry)
	return hi, lo
}
