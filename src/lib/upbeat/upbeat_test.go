package upbeat

import (
	"sync"
	"testing"
)

func TestHex(t *testing.T) {
	if s := string(AppendHex32(nil, 0xdeadbeef)); s != "deadbeef" {
		t.Errorf("expected deadbeef but got %s", s)
	}
	if s := string(AppendHex32(nil, 0x1f)); s != "0000001f" {
		t.Errorf("expected leading zeros, got %s", s)
	}
	if s := string(AppendHex64([]byte("x="), 0x0123456789abcdef)); s != "x=0123456789abcdef" {
		t.Errorf("unexpected 64 bit hex %s", s)
	}
}

func TestSpinlockTry(t *testing.T) {
	var l Spinlock
	if !l.TryAcquire() {
		t.Fatalf("free lock not acquired")
	}
	if l.TryAcquire() {
		t.Errorf("held lock acquired twice")
	}
	if !l.Held() {
		t.Errorf("lock should be held")
	}
	l.Release()
	l.Release()
	if l.Held() {
		t.Errorf("lock should be free")
	}
}

func TestSpinlockExcludes(t *testing.T) {
	var l Spinlock
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				l.Acquire()
				counter++
				l.Release()
			}
		}()
	}
	wg.Wait()
	if counter != 8000 {
		t.Errorf("lost updates: counter is %d", counter)
	}
}
