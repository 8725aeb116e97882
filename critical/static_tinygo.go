//go:build tinygo

package critical

import (
	"runtime/volatile"
	"unsafe"

	"advance/mmio"
)

func load8(p unsafe.Pointer) uint8   { return volatile.LoadUint8((*uint8)(p)) }
func load16(p unsafe.Pointer) uint16 { return volatile.LoadUint16((*uint16)(p)) }
func load32(p unsafe.Pointer) uint32 { return volatile.LoadUint32((*uint32)(p)) }

func store8(p unsafe.Pointer, v uint8)   { volatile.StoreUint8((*uint8)(p), v) }
func store16(p unsafe.Pointer, v uint16) { volatile.StoreUint16((*uint16)(p), v) }
func store32(p unsafe.Pointer, v uint32) { volatile.StoreUint32((*uint32)(p), v) }

// RAM takes swp/swpb like any other address.
func swap8(p unsafe.Pointer, v uint8) uint8 {
	return mmio.RW[uint8](uintptr(p)).Swap(v)
}

func swap32(p unsafe.Pointer, v uint32) uint32 {
	return mmio.RW[uint32](uintptr(p)).Swap(v)
}

func copyValue[T any](dst, src *T) {
	*dst = *src
}
