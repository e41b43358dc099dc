//go:build rpi3

package main

import (
	"quietude/src/hardware/bcm2835"
	"quietude/src/joy"
	"quietude/src/lib/trust"

	arm64 "quietude/src/hardware/arm-cortex-a53"
)

// set with -ldflags "-X main.logLevel=debug"
var logLevel = "info"

// "on" sends trust output to the debugger instead of the console
var semihostedLogs = "off"

const heartbeatNanos = 30 * 1_000_000_000

func main() {
	arm64.InitInterrupts()
	if semihostedLogs == "on" {
		trust.SetOutput(trust.Semihosting())
	}
	trust.SetLevel(trust.ParseLevel(logLevel))

	board := bcm2835.MMIO()
	k := joy.NewKernel(board, arm64.LocalPeripherals(), arm64.Core{}, arm64.GenericTimer{})
	k.Start(semihostedLogs != "on")
	arm64.UnmaskDAIF()

	if !k.Heartbeat(heartbeatNanos) {
		trust.Warnf("no heartbeat")
	}
	m := joy.NewMonitor(k)
	m.Reboot = func() {
		k.Console.WriteLine("rebooting...")
		k.Console.Flush()
		board.PowerManagement.Reboot()
		for {
			arm64.Core{}.WaitForInterrupt()
		}
	}
	m.Run()
}
