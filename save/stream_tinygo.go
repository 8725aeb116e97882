//go:build tinygo

package save

import (
	"unsafe"

	"advance/dma"
)

// The EEPROM only answers DMA: the CPU cannot produce the back to back
// accesses it expects.

func send(bits []uint16) {
	dma.Channel(3).Copy16(eepromBase, uintptr(unsafe.Pointer(&bits[0])), len(bits))
}

func receive(bits []uint16) {
	dma.Channel(3).Copy16(uintptr(unsafe.Pointer(&bits[0])), eepromBase, len(bits))
}
