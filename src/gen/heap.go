package gen

import "golang.org/x/exp/constraints"

// The heap functions keep h ordered so that h[0] is the least element
// according to cmp, which returns a negative number when a sorts before b,
// zero when they tie and a positive number otherwise.  They work in place on the slice's backing array and
// never grow it: the caller sizes the capacity up front.  Elements that
// compare equal come out in no particular order.

// HeapPush adds v and returns the extended slice.  It panics if h is already
// at capacity.
func HeapPush[T any](h []T, v T, cmp func(a, b T) int) []T {
	if len(h) == cap(h) {
		panic("gen: heap is at capacity")
	}
	h = append(h, v)
	i := len(h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if cmp(h[i], h[parent]) >= 0 {
			break
		}
		h[i], h[parent] = h[parent], h[i]
		i = parent
	}
	return h
}

// HeapPop removes the least element and returns it with the shortened
// slice.  It panics on an empty heap.
func HeapPop[T any](h []T, cmp func(a, b T) int) (T, []T) {
	if len(h) == 0 {
		panic("gen: pop from empty heap")
	}
	top := h[0]
	last := len(h) - 1
	h[0] = h[last]
	var zero T
	h[last] = zero
	h = h[:last]
	i := 0
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < len(h) && cmp(h[l], h[smallest]) < 0 {
			smallest = l
		}
		if r < len(h) && cmp(h[r], h[smallest]) < 0 {
			smallest = r
		}
		if smallest == i {
			break
		}
		h[i], h[smallest] = h[smallest], h[i]
		i = smallest
	}
	return top, h
}

// Compare is the natural order, for heaps of plain numbers or strings.
func Compare[T constraints.Ordered](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareBy orders records by an ordered key.
func CompareBy[T any, K constraints.Ordered](key func(T) K) func(a, b T) int {
	return func(a, b T) int {
		return Compare(key(a), key(b))
	}
}
