package bcm2835

import "quietude/src/hardware/mmio"

// AuxPeripheralsRegisterMap is the AUX block: the mini UART plus the two
// auxiliary SPI masters, which we do not drive.
type AuxPeripheralsRegisterMap struct {
	InterruptStatus           mmio.Register32 //0x00
	Enables                   mmio.Register32 //0x04
	reserved00                [14]uint32
	MiniUARTData              mmio.Register32 //0x40, 8 bits wide
	MiniUARTInterruptEnable   mmio.Register32 //0x44
	MiniUARTInterruptIdentify mmio.Register32 //0x48
	MiniUARTLineControl       mmio.Register32 //0x4C
	MiniUARTModemControl      mmio.Register32 //0x50
	MiniUARTLineStatus        mmio.Register32 //0x54, readonly
	MiniUARTModemStatus       mmio.Register32 //0x58, readonly
	MiniUARTScratch           mmio.Register32 //0x5C
	MiniUARTExtraControl      mmio.Register32 //0x60
	MiniUARTExtraStatus       mmio.Register32 //0x64
	MiniUARTBAUD              mmio.Register32 //0x68
	reserved01                [21]uint32      //0x6C-0xBC, SPI1
	reserved02                [6]uint32       //0xC0-0xD4, SPI2
}

// aux enables
const PeripheralMiniUART = 1 << 0

// mini uart: extra control (CNTL)
const (
	ReceiveEnable  = 1 << 0
	TransmitEnable = 1 << 1
	EnableRTS      = 1 << 2
	EnableCTS      = 1 << 3
)

// mini uart: line control.  The datasheet claims bit 0 alone selects 8 bit
// mode; it takes both bits.
// https://elinux.org/BCM2835_datasheet_errata
const (
	DataLength8Bits = 3 << 0
	Break           = 1 << 6
	DLab            = 1 << 7
)

// mini uart: interrupt identify, read side
const (
	NoInterruptPending        = 1 << 0
	TransmitInterruptsPending = 1 << 1
	ReceiveInterruptsPending  = 2 << 1
)

// mini uart: interrupt identify, write side
const (
	ClearReceiveFIFO  = 1 << 1
	ClearTransmitFIFO = 1 << 2
	ClearFIFOs        = ClearReceiveFIFO | ClearTransmitFIFO
)

// mini uart: line status
const (
	ReceivedDataAvailable      = 1 << 0
	ReceivedDataOverrun        = 1 << 1
	TransmitFIFOSpaceAvailable = 1 << 5
	TransmitterIdle            = 1 << 6
)

// mini uart: interrupt enable.  The manual swaps these two; the errata page
// has them right.
const (
	ReceiveFIFOReady  = 1 << 0
	TransmitFIFOEmpty = 1 << 1
)

// MiniUARTFIFODepth is the depth of both hardware FIFOs.
const MiniUARTFIFODepth = 8

// BaudDivisor computes the BAUD register value for the given rate with the
// mini uart's 8x oversampling: baud = clock / (8 * (divisor + 1)).
func BaudDivisor(clockHz uint32, baud uint32) uint32 {
	return clockHz/(8*baud) - 1
}
