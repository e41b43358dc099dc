//go:build rpi3

// miniuart_interrupts echoes what you type, a line at a time, in both console
// modes.  Type "binary" to switch to raw bytes; in binary mode a ^D switches
// back.
package main

import (
	"quietude/src/drivers/serial"
	"quietude/src/hardware/bcm2835"
	"quietude/src/joy"

	arm64 "quietude/src/hardware/arm-cortex-a53"
)

func main() {
	arm64.InitInterrupts()
	k := joy.NewKernel(bcm2835.MMIO(), arm64.LocalPeripherals(), arm64.Core{}, arm64.GenericTimer{})
	k.Start(true)
	arm64.UnmaskDAIF()

	c := k.Console
	c.WriteLine("hello, uart")
	c.WriteLine("type some text, then hit <return>")
	var line [80]byte
	n := 0
	for {
		ch := c.GetChar()
		if c.Mode() == serial.Binary {
			if ch == 0x04 {
				c.SetMode(serial.Text)
				c.WriteLine("")
				c.WriteLine("text mode")
				continue
			}
			c.PutChar(ch)
			continue
		}
		if ch != '\n' {
			c.PutChar(ch)
			if n < len(line) {
				line[n] = ch
				n++
			}
			continue
		}
		c.WriteLine("")
		c.WriteLineFragment("Line: ")
		c.WriteLine(string(line[:n]))
		if string(line[:n]) == "binary" {
			c.WriteLine("binary mode, ^D to leave")
			c.SetMode(serial.Binary)
		}
		n = 0
	}
}
