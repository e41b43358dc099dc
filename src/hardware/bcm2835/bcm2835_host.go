//go:build !rpi3

package bcm2835

// NewBoard allocates register blocks in ordinary memory.  Device models in
// bcm2835sim attach behavior to them.
func NewBoard() *Board {
	return &Board{
		Aux:                 &AuxPeripheralsRegisterMap{},
		GPIO:                &GPIORegisterMap{},
		InterruptController: &IRQRegisterMap{},
		PowerManagement:     &PowerManagementRegisterMap{},
	}
}
