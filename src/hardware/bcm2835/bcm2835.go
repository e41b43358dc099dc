// Package bcm2835 describes the BCM2835/2837 peripherals the kernel touches
// directly: the AUX block (mini UART), GPIO, the interrupt controller and the
// watchdog.
package bcm2835

// Board groups the peripheral blocks a driver needs so that it can be handed
// the real memory mapped registers on the Pi or plain memory in tests.
type Board struct {
	Aux                 *AuxPeripheralsRegisterMap
	GPIO                *GPIORegisterMap
	InterruptController *IRQRegisterMap
	PowerManagement     *PowerManagementRegisterMap
}
