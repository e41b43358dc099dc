package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mattn/go-tty"
	"github.com/tarm/serial"

	"quietude/src/tools/termbridge"
)

var helpFlag = flag.Bool("h", false, "get usage info")
var portFlag = flag.String("port", "/dev/ttyUSB0", "serial device the Pi's mini UART is wired to")
var baudFlag = flag.Int("baud", 115200, "baud rate, must match the kernel's divisor")
var escapeFlag = flag.Uint("escape", termbridge.DefaultEscape, "byte that ends the session (default ^])")
var crlfFlag = flag.Bool("crlf", true, "send the enter key as a carriage return")

func main() {
	flag.Parse()
	if *helpFlag {
		flag.Usage()
		return
	}
	if *escapeFlag > 0xff {
		log.Fatalf("escape must be a single byte, not %#x", *escapeFlag)
	}
	if err := run(); err != nil {
		log.Fatalf("%v", err)
	}
}

func run() error {
	port, err := serial.OpenPort(&serial.Config{
		Name:        *portFlag,
		Baud:        *baudFlag,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return fmt.Errorf("unable to open %s: %w", *portFlag, err)
	}
	defer port.Close()

	term, err := tty.Open()
	if err != nil {
		return fmt.Errorf("unable to open terminal: %w", err)
	}
	defer term.Close()
	restore := term.MustRaw()
	defer restore()

	fmt.Fprintf(os.Stderr, "connected to %s at %d baud, escape is %#x\r\n", *portFlag, *baudFlag, *escapeFlag)
	b := termbridge.New()
	b.Escape = byte(*escapeFlag)
	b.MapNewline = *crlfFlag
	if err := b.Run(term.Input(), term.Output(), port); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\r\ndisconnected\r\n")
	return nil
}
