package bcm2835

import "quietude/src/hardware/mmio"

type GPIORegisterMap struct {
	FuncSelect               [6]mmio.Register32 //0x00,04,08,0C,10, and 14
	reserved00               uint32             //0x18
	OutputSet0               mmio.Register32    //0x1C
	OutputSet1               mmio.Register32    //0x20
	reserved01               uint32             //0x24
	OutputClear0             mmio.Register32    //0x28
	OutputClear1             mmio.Register32    //0x2C
	reserved03               uint32             //0x30
	Level0                   mmio.Register32    //0x34
	Level1                   mmio.Register32    //0x38
	reserved04               uint32             //0x3C
	EventDetectStatus0       mmio.Register32    //0x40
	EventDetectStatus1       mmio.Register32    //0x44
	reserved05               uint32             //0x48
	RisingEdgeDetectEnable0  mmio.Register32    //0x4C
	RisingEdgeDetectEnable1  mmio.Register32    //0x50
	reserved06               uint32             //0x54
	FallingEdgeDetectEnable0 mmio.Register32    //0x58
	FallingEdgeDetectEnable1 mmio.Register32    //0x5C
	reserved07               uint32             //0x60
	HighDetectEnable0        mmio.Register32    //0x64
	HighDetectEnable1        mmio.Register32    //0x68
	reserved08               uint32             //0x6C
	LowDetectEnable0         mmio.Register32    //0x70
	LowDetectEnable1         mmio.Register32    //0x74
	reserved09               uint32             //0x78
	AsyncRisingEdgeDetect0   mmio.Register32    //0x7C
	AsyncRisingEdgeDetect1   mmio.Register32    //0x80
	reserved0A               uint32             //0x84
	AsyncFallingEdgeDetect0  mmio.Register32    //0x88
	AsyncFallingEdgeDetect1  mmio.Register32    //0x8C
	reserved0B               uint32             //0x90
	PullUpDownEnable         mmio.Register32    //0x94
	PullUpDownEnableClock0   mmio.Register32    //0x98
	PullUpDownEnableClock1   mmio.Register32    //0x9C
}

type GPIOMode uint32 //3 bits wide
const GPIOInput GPIOMode = 0
const GPIOOutput GPIOMode = 1
const GPIOAltFunc5 GPIOMode = 2
const GPIOAltFunc4 GPIOMode = 3
const GPIOAltFunc0 GPIOMode = 4
const GPIOAltFunc1 GPIOMode = 5
const GPIOAltFunc2 GPIOMode = 6
const GPIOAltFunc3 GPIOMode = 7

// GPIOPull is the value written to GPPUD before clocking it into pins.
type GPIOPull uint32

const (
	GPIOPullOff  GPIOPull = 0
	GPIOPullDown GPIOPull = 1
	GPIOPullUp   GPIOPull = 2
)

// pins the mini uart uses in ALT5
const (
	MiniUARTTransmitPin = 14
	MiniUARTReceivePin  = 15
)

const numGPIOPins = 54

// SelectFunction sets the function of one pin, leaving the other nine pins
// in the same FSEL register alone.  It returns false for a pin that does not
// exist.
func (g *GPIORegisterMap) SelectFunction(pin uint8, mode GPIOMode) bool {
	if pin >= numGPIOPins {
		return false
	}
	shift := (pin % 10) * 3
	g.FuncSelect[pin/10].ReplaceBits(uint32(mode), 7, shift)
	return true
}

// SetPull runs the GPPUD/GPPUDCLK0 dance for pins 0-31 in mask.  The settle
// func must wait at least 150 core cycles; it is called twice.
func (g *GPIORegisterMap) SetPull(pull GPIOPull, mask uint32, settle func()) {
	g.PullUpDownEnable.Set(uint32(pull))
	settle()
	g.PullUpDownEnableClock0.Set(mask)
	settle()
	g.PullUpDownEnable.Set(uint32(GPIOPullOff))
	g.PullUpDownEnableClock0.Set(0)
}
