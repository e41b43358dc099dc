// Package serial drives the mini UART as the kernel console.  Bytes move
// between the caller and the wire through two rings filled and drained by the
// AUX interrupt, so callers only ever wait for buffer space or data, never on
// the line itself.
//
// Every exported I/O method is bracketed by exactly one peripheral write
// barrier and one read barrier, whatever it moves.  The interrupt handler
// adds its own pair only when it did not interrupt one of those methods.
package serial

import (
	"sync/atomic"

	"quietude/src/gen"
	"quietude/src/hardware/bcm2835"
	"quietude/src/hardware/rpi"
	"quietude/src/lib/upbeat"
)

const (
	ReadBufferSize  = 1024
	WriteBufferSize = 1024
)

// CPU is what the driver needs from the core it runs on.
type CPU interface {
	WriteBarrier()
	ReadBarrier()
	WaitForInterrupt()
	DelayNanos(ns uint64)
}

// Mode selects newline handling.
type Mode int32

const (
	// Text sends '\n' as "\r\n" and delivers a received '\r' (or "\r\n") as '\n'.
	Text Mode = iota
	// Binary passes every byte through untouched.
	Binary
)

func (m Mode) String() string {
	switch m {
	case Text:
		return "Text"
	case Binary:
		return "Binary"
	}
	return "Mode(?)"
}

// Config holds the few line parameters that are not fixed by the hardware.
// The zero value gives 115200 8N1 on a 250MHz core clock.
type Config struct {
	// BaudDivisor is written to AUX_MU_BAUD.
	BaudDivisor uint32
	// SettleNanos is the wait either side of clocking the GPIO pull
	// control, 150 cycles at the nominal 150MHz.
	SettleNanos uint64
	// QuirkDrainNanos is how long to let the receiver collect the junk it
	// picks up at enable before the FIFOs are cleared a second time.
	QuirkDrainNanos uint64
}

const (
	DefaultBaudRate    = 115200
	defaultSettleNanos = 1000
)

func (c Config) withDefaults() Config {
	if c.BaudDivisor == 0 {
		c.BaudDivisor = bcm2835.BaudDivisor(rpi.CoreClockHz, DefaultBaudRate)
	}
	if c.SettleNanos == 0 {
		c.SettleNanos = defaultSettleNanos
	}
	if c.QuirkDrainNanos == 0 {
		// two characters, 20 bit times
		c.QuirkDrainNanos = 20 * 1_000_000_000 / DefaultBaudRate
	}
	return c
}

// Device is the console.  There is one per board; it owns the AUX block,
// the UART pins and the AUX enable bit of the interrupt controller.
type Device struct {
	board  *bcm2835.Board
	cpu    CPU
	config Config

	mode atomic.Int32
	lock upbeat.Spinlock

	rxStorage [ReadBufferSize]byte
	txStorage [WriteBufferSize]byte
	rx        gen.ByteRing
	tx        gen.ByteRing

	// set while an exported method is between its barriers
	inSync atomic.Bool
	// text mode: the last byte delivered was a '\r' turned into '\n'
	afterCR bool

	stats counters
}

// New returns a console in Text mode.  Nothing touches the hardware until
// Init.
func New(board *bcm2835.Board, cpu CPU, config Config) *Device {
	d := &Device{
		board:  board,
		cpu:    cpu,
		config: config.withDefaults(),
	}
	d.rx.Init(d.rxStorage[:])
	d.tx.Init(d.txStorage[:])
	return d
}

// Init brings up the pins, the UART and its interrupt.  The receive
// interrupt is on when Init returns; the transmit interrupt is turned on by
// the first write.
func (d *Device) Init() {
	d.rx.Reset()
	d.tx.Reset()
	d.afterCR = false
	gpio := d.board.GPIO
	aux := d.board.Aux

	d.cpu.WriteBarrier()
	gpio.SelectFunction(bcm2835.MiniUARTTransmitPin, bcm2835.GPIOAltFunc5)
	gpio.SelectFunction(bcm2835.MiniUARTReceivePin, bcm2835.GPIOAltFunc5)
	// RX keeps its reset pull down so a floating line does not read as
	// noise.
	gpio.SetPull(bcm2835.GPIOPullOff, 1<<bcm2835.MiniUARTTransmitPin, d.settle)
	d.cpu.ReadBarrier()

	d.cpu.WriteBarrier()
	aux.Enables.SetBits(bcm2835.PeripheralMiniUART)
	aux.MiniUARTExtraControl.Set(0)
	aux.MiniUARTInterruptEnable.Set(0)
	aux.MiniUARTLineControl.Set(bcm2835.DataLength8Bits)
	aux.MiniUARTModemControl.Set(0)
	aux.MiniUARTBAUD.Set(d.config.BaudDivisor)
	aux.MiniUARTInterruptIdentify.Set(bcm2835.ClearFIFOs)
	aux.MiniUARTExtraControl.Set(bcm2835.ReceiveEnable | bcm2835.TransmitEnable)
	// the receiver picks up a stray 0xf8 as it comes up
	d.cpu.DelayNanos(d.config.QuirkDrainNanos)
	aux.MiniUARTInterruptIdentify.Set(bcm2835.ClearFIFOs)
	aux.MiniUARTInterruptEnable.SetBits(bcm2835.ReceiveFIFOReady)
	d.cpu.ReadBarrier()

	d.cpu.WriteBarrier()
	d.board.InterruptController.EnableIRQs1.SetBits(bcm2835.AuxInterrupt)
	d.cpu.ReadBarrier()
}

// Deinit waits for pending output to leave, then puts the UART and its pins
// back the way the firmware left them.
func (d *Device) Deinit() {
	gpio := d.board.GPIO
	aux := d.board.Aux

	d.cpu.WriteBarrier()
	d.flush()
	aux.MiniUARTExtraControl.Set(0)
	aux.MiniUARTInterruptIdentify.Set(bcm2835.ClearFIFOs)
	aux.MiniUARTInterruptEnable.Set(0)
	aux.MiniUARTLineControl.Set(0)
	aux.MiniUARTModemControl.Set(0)
	aux.MiniUARTBAUD.Set(0)
	aux.Enables.ClearBits(bcm2835.PeripheralMiniUART)
	d.cpu.ReadBarrier()

	d.cpu.WriteBarrier()
	gpio.SelectFunction(bcm2835.MiniUARTTransmitPin, bcm2835.GPIOInput)
	gpio.SelectFunction(bcm2835.MiniUARTReceivePin, bcm2835.GPIOInput)
	gpio.SetPull(bcm2835.GPIOPullDown, 1<<bcm2835.MiniUARTTransmitPin, d.settle)
	d.cpu.ReadBarrier()
}

func (d *Device) settle() {
	d.cpu.DelayNanos(d.config.SettleNanos)
}

// Lock serializes mainline callers that need several calls to go out
// together.  Never call it from an interrupt handler.
func (d *Device) Lock() {
	d.lock.Acquire()
}

func (d *Device) Unlock() {
	d.lock.Release()
}

// SetMode takes effect from the next call.  The value is not checked; a mode
// other than Text or Binary panics on the next I/O call.
func (d *Device) SetMode(m Mode) {
	d.mode.Store(int32(m))
	d.afterCR = false
}

func (d *Device) Mode() Mode {
	return Mode(d.mode.Load())
}
