package gen

import "sync/atomic"

// ByteRing is a fixed capacity FIFO of bytes over storage supplied by the
// caller.  It never allocates and never grows.
//
// The ring does no locking.  Start and length are single words read and
// written atomically so a polling loop always sees a fresh value, but a
// producer and consumer that can interrupt each other must still exclude
// each other around Push and Pop.
type ByteRing struct {
	buf    []byte
	start  atomic.Uint32
	length atomic.Uint32
}

// Init points the ring at storage and empties it.  The capacity is
// len(storage), which must be non-zero.
func (r *ByteRing) Init(storage []byte) {
	if len(storage) == 0 {
		panic("gen: ring needs storage")
	}
	r.buf = storage
	r.Reset()
}

// Reset discards the contents.
func (r *ByteRing) Reset() {
	r.start.Store(0)
	r.length.Store(0)
}

// Push appends b at the tail.  It returns false, and changes nothing, when
// the ring is full.
func (r *ByteRing) Push(b byte) bool {
	n := r.length.Load()
	if int(n) == len(r.buf) {
		return false
	}
	r.buf[(int(r.start.Load())+int(n))%len(r.buf)] = b
	r.length.Store(n + 1)
	return true
}

// Pop removes the byte at the head.  ok is false when the ring is empty.
func (r *ByteRing) Pop() (b byte, ok bool) {
	n := r.length.Load()
	if n == 0 {
		return 0, false
	}
	s := r.start.Load()
	b = r.buf[s]
	r.start.Store((s + 1) % uint32(len(r.buf)))
	r.length.Store(n - 1)
	return b, true
}

func (r *ByteRing) Len() int {
	return int(r.length.Load())
}

func (r *ByteRing) Cap() int {
	return len(r.buf)
}

func (r *ByteRing) Empty() bool {
	return r.length.Load() == 0
}

func (r *ByteRing) Full() bool {
	return int(r.length.Load()) == len(r.buf)
}
