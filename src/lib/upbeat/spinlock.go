package upbeat

import "sync/atomic"

// Spinlock is a busy-waiting lock for mainline code.  It must never be taken
// from an interrupt handler: the holder it would wait for is the code the
// handler interrupted.
type Spinlock struct {
	state uint32
}

// Acquire spins until the lock is ours.  Taking a lock you already hold
// deadlocks.
func (l *Spinlock) Acquire() {
	for !l.TryAcquire() {
		for atomic.LoadUint32(&l.state) != 0 {
			spinHint()
		}
	}
}

// TryAcquire takes the lock if it is free and reports whether it did.
func (l *Spinlock) TryAcquire() bool {
	return atomic.SwapUint32(&l.state, 1) == 0
}

// Release frees the lock.  Releasing a free lock has no effect.
func (l *Spinlock) Release() {
	atomic.StoreUint32(&l.state, 0)
}

// Held is for assertions and diagnostics only.
func (l *Spinlock) Held() bool {
	return atomic.LoadUint32(&l.state) != 0
}
