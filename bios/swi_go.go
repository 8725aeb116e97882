//go:build !tinygo

package bios

import "errors"

// ErrSoftReset is the panic value a host Firmware raises for SoftReset, the
// host equivalent of the program restarting.
var ErrSoftReset = errors.New("bios: soft reset")

// Firmware services software interrupts on the host. It receives exactly
// what the device BIOS would find in r0-r3 and writes results back there.
type Firmware interface {
	Call(fn Function, r *Regs)
}

var firmware Firmware

// Attach routes all BIOS calls to fw and returns the previous firmware.
func Attach(fw Firmware) Firmware {
	prev := firmware
	firmware = fw
	return prev
}

func swi(fn Function, r *Regs) {
	if firmware == nil {
		panic("bios: no firmware attached for " + fn.String())
	}
	firmware.Call(fn, r)
}
