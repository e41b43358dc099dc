package arm_cortex_a53

// CNTP_CTL_EL0 bits
const (
	TimerEnable  = 1 << 0
	TimerIMask   = 1 << 1
	TimerIStatus = 1 << 2 //read only
)

// Control values used by the timeout queue: armed means the comparator
// raises an interrupt, masked means it keeps counting but stays quiet.
const (
	TimerArmed  = TimerEnable
	TimerMasked = TimerEnable | TimerIMask
)
