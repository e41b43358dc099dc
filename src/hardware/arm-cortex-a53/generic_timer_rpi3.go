//go:build rpi3

package arm_cortex_a53

import "device/arm"

// GenericTimer is the EL1 physical timer of the core we are running on.
type GenericTimer struct{}

// Counter reads CNTPCT_EL0.
func (GenericTimer) Counter() uint64 {
	var t uint64
	arm.AsmFull(`isb
		mrs x27, cntpct_el0
		str x27,{t}`, map[string]interface{}{"t": &t})
	return t
}

// Frequency reads CNTFRQ_EL0.  Only the low 32 bits are defined.
func (GenericTimer) Frequency() uint64 {
	var f uint64
	arm.AsmFull(`mrs x28, cntfrq_el0
		str x28,{f}`, map[string]interface{}{"f": &f})
	return f & 0xffffffff
}

func (GenericTimer) SetCompare(ticks uint64) {
	arm.AsmFull("msr cntp_cval_el0, {v}", map[string]interface{}{"v": ticks})
}

func (GenericTimer) Compare() uint64 {
	var v uint64
	arm.AsmFull(`mrs x27, cntp_cval_el0
		str x27,{v}`, map[string]interface{}{"v": &v})
	return v
}

func (GenericTimer) SetControl(ctl uint64) {
	arm.AsmFull(`msr cntp_ctl_el0, {c}
		isb`, map[string]interface{}{"c": ctl})
}

func (GenericTimer) Control() uint64 {
	var c uint64
	arm.AsmFull(`mrs x27, cntp_ctl_el0
		str x27,{c}`, map[string]interface{}{"c": &c})
	return c
}
