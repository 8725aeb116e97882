//go:build tinygo

package dma

import (
	"runtime/volatile"
	"unsafe"
)

// fillWords holds the repeated value of a fill, one word per channel. It
// is in IWRAM, which every channel can read.
var fillWords [4]uint32

func fillSource(c Channel, v uint32) uintptr {
	p := &fillWords[c]
	volatile.StoreUint32(p, v)
	return uintptr(unsafe.Pointer(p))
}
