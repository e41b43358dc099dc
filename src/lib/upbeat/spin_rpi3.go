//go:build rpi3

package upbeat

import "device/arm"

func spinHint() {
	arm.Asm("yield")
}
