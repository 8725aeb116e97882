//go:build tinygo

package startup

/*
#include <stdint.h>

// Fill source for the .bss clear. const puts it in .rodata, in ROM.
static const uint32_t advance_zero_word = 0;

static uintptr_t advance_zero_word_addr(void) {
	return (uintptr_t)&advance_zero_word;
}
*/
import "C"

import "unsafe"

// Section bounds from the linker script.

//go:extern _sidata
var _sidata [0]uint32

//go:extern _sdata
var _sdata [0]uint32

//go:extern _edata
var _edata [0]uint32

//go:extern _sbss
var _sbss [0]uint32

//go:extern _ebss
var _ebss [0]uint32

//go:linkname runtimeInitAll runtime.initAll
func runtimeInitAll()

//go:linkname runtimeCallMain runtime.callMain
func runtimeCallMain()

func linkerLayout() Layout {
	data := uintptr(unsafe.Pointer(&_sdata))
	bss := uintptr(unsafe.Pointer(&_sbss))
	return Layout{
		DataSource: uintptr(unsafe.Pointer(&_sidata)),
		DataDest:   data,
		DataWords:  uint32(uintptr(unsafe.Pointer(&_edata))-data) / 4,
		ZeroStart:  bss,
		ZeroWords:  uint32(uintptr(unsafe.Pointer(&_ebss))-bss) / 4,
		ZeroSource: uintptr(C.advance_zero_word_addr()),
	}
}

// advance_start is jumped to by crt0 once the stacks are set up, in System
// mode with interrupts off. The sequence lives on this stack frame: neither
// .bss nor the heap exist yet.
//
//export advance_start
func advance_start() {
	seq := Sequence{cfg: DefaultConfig(), layout: linkerLayout()}
	seq.Run(func() {
		runtimeInitAll()
		runtimeCallMain()
	})
}
