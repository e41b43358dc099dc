package gen

import (
	"testing"
)

func TestRingFIFO(t *testing.T) {
	var r ByteRing
	r.Init(make([]byte, 4))
	if !r.Empty() || r.Full() || r.Len() != 0 || r.Cap() != 4 {
		t.Errorf("ring not empty at start")
	}
	if _, ok := r.Pop(); ok {
		t.Errorf("pop from empty ring succeeded")
	}
	// push and pop in a staggered pattern so the head wraps several times
	next, want := byte(0), byte(0)
	for round := 0; round < 10; round++ {
		for r.Push(next) {
			next++
		}
		if !r.Full() || r.Len() != 4 {
			t.Fatalf("round %d: ring should be full, len %d", round, r.Len())
		}
		for i := 0; i < 3; i++ {
			b, ok := r.Pop()
			if !ok || b != want {
				t.Fatalf("round %d: expected %d but got %d (ok=%v)", round, want, b, ok)
			}
			want++
		}
	}
	for {
		b, ok := r.Pop()
		if !ok {
			break
		}
		if b != want {
			t.Errorf("drain: expected %d but got %d", want, b)
		}
		want++
	}
	if want != next {
		t.Errorf("lost bytes: pushed %d popped %d", next, want)
	}
}

func TestRingFullRefusesAndKeepsContents(t *testing.T) {
	var r ByteRing
	r.Init(make([]byte, 3))
	for _, b := range []byte("abc") {
		if !r.Push(b) {
			t.Fatalf("push %c refused", b)
		}
	}
	if r.Push('d') {
		t.Errorf("push into full ring accepted")
	}
	if r.Len() != 3 {
		t.Errorf("full push changed length to %d", r.Len())
	}
	got := ""
	for !r.Empty() {
		b, _ := r.Pop()
		got += string(b)
	}
	if got != "abc" {
		t.Errorf("expected abc but got %s", got)
	}
	r.Push('x')
	r.Reset()
	if !r.Empty() {
		t.Errorf("reset did not empty the ring")
	}
}

func TestRingNeedsStorage(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Init with no storage should panic")
		}
	}()
	var r ByteRing
	r.Init(nil)
}
