//go:build !rpi3

package mmio

import (
	"sync"
	"sync/atomic"
)

// Hook gives a register side effects.  Read, if set, supplies the value seen
// by Get.  Write, if set, receives the value stored by Set and friends; the
// stored word is not updated unless the hook calls Store itself.
type Hook struct {
	Read  func() uint32
	Write func(uint32)
}

// Register32 models a memory-mapped 32 bit register for host builds.  It has
// the same method set and the same size as the volatile register used on the
// board, so register maps keep their hardware offsets.
type Register32 struct {
	reg atomic.Uint32
}

// hooks are kept out of line, keyed by register address.
var hooks sync.Map // *Register32 -> *Hook

// Attach installs side effects on the register.  Pass nil to detach.
func (r *Register32) Attach(h *Hook) {
	if h == nil {
		hooks.Delete(r)
		return
	}
	hooks.Store(r, h)
}

func (r *Register32) hook() *Hook {
	h, ok := hooks.Load(r)
	if !ok {
		return nil
	}
	return h.(*Hook)
}

// Load returns the stored word, bypassing any hook.
func (r *Register32) Load() uint32 {
	return r.reg.Load()
}

// Store sets the stored word, bypassing any hook.
func (r *Register32) Store(value uint32) {
	r.reg.Store(value)
}

func (r *Register32) Get() uint32 {
	if h := r.hook(); h != nil && h.Read != nil {
		return h.Read()
	}
	return r.reg.Load()
}

func (r *Register32) Set(value uint32) {
	if h := r.hook(); h != nil && h.Write != nil {
		h.Write(value)
		return
	}
	r.reg.Store(value)
}

func (r *Register32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

func (r *Register32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

func (r *Register32) HasBits(value uint32) bool {
	return r.Get()&value > 0
}

// ReplaceBits replaces the bits selected by mask, after shifting both the
// mask and the value left by pos.
func (r *Register32) ReplaceBits(value uint32, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | value<<pos)
}
