//go:build rpi3

// arm_timer queues three timeouts out of order and prints them as they fire.
// Expect B, C, then A.
package main

import (
	"sync/atomic"

	"quietude/src/hardware/bcm2835"
	"quietude/src/joy"

	arm64 "quietude/src/hardware/arm-cortex-a53"
)

const millis = 1_000_000

var names = [...]string{"A", "B", "C"}

// written only by the callbacks, which never nest
var order [len(names)]atomic.Int32
var fired atomic.Int32

func record(arg any) {
	order[fired.Load()].Store(int32(arg.(int)))
	fired.Add(1)
}

func main() {
	arm64.InitInterrupts()
	k := joy.NewKernel(bcm2835.MMIO(), arm64.LocalPeripherals(), arm64.Core{}, arm64.GenericTimer{})
	k.Start(true)

	k.Timeouts.AddTimer(record, 0, 50*millis)
	k.Timeouts.AddTimer(record, 1, 10*millis)
	k.Timeouts.AddTimer(record, 2, 30*millis)
	arm64.UnmaskDAIF()

	printed := int32(0)
	for printed < int32(len(names)) {
		for printed < fired.Load() {
			k.Console.WriteLineFragment("timeout ")
			k.Console.WriteLine(names[order[printed].Load()])
			printed++
		}
		k.Sleep(func() bool { return printed < fired.Load() })
	}
	k.Console.WriteLine("all timeouts done")
	for {
		k.Poll()
		k.Sleep(nil)
	}
}
