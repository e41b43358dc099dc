//go:build !rpi3

package upbeat

import "runtime"

func spinHint() {
	runtime.Gosched()
}
