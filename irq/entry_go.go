//go:build !tinygo

package irq

import "advance/mmio"

// The host bus jumps through Vector with mmio.Call, in the mode the device
// would: after the BIOS prologue, with further interrupts held off.
var entryAddr = mmio.Func(dispatch)

func entry() uint32 {
	return entryAddr
}
