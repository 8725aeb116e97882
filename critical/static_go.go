//go:build !tinygo

package critical

import (
	"reflect"
	"unsafe"

	"advance/mmio"
)

// On the host an interrupt is only ever delivered by the bus, so a single Go
// load or store of a word is as indivisible as the device instruction.

func load8(p unsafe.Pointer) uint8   { return *(*uint8)(p) }
func load16(p unsafe.Pointer) uint16 { return *(*uint16)(p) }
func load32(p unsafe.Pointer) uint32 { return *(*uint32)(p) }

func store8(p unsafe.Pointer, v uint8)   { *(*uint8)(p) = v }
func store16(p unsafe.Pointer, v uint16) { *(*uint16)(p) = v }
func store32(p unsafe.Pointer, v uint32) { *(*uint32)(p) = v }

func swap8(p unsafe.Pointer, v uint8) uint8 {
	old := *(*uint8)(p)
	*(*uint8)(p) = v
	return old
}

func swap32(p unsafe.Pointer, v uint32) uint32 {
	old := *(*uint32)(p)
	*(*uint32)(p) = v
	return old
}

// copyValue copies a word at a time the way the device does, yielding to the
// bus between words so a misplaced copy outside a critical section can be
// torn by an interrupt in tests. Values holding pointers are copied whole so
// the garbage collector sees the write.
func copyValue[T any](dst, src *T) {
	if hasPointers(reflect.TypeOf((*T)(nil)).Elem()) {
		mmio.Yield()
		*dst = *src
		mmio.Yield()
		return
	}
	n := unsafe.Sizeof(*dst)
	d := unsafe.Slice((*byte)(unsafe.Pointer(dst)), n)
	s := unsafe.Slice((*byte)(unsafe.Pointer(src)), n)
	for i := uintptr(0); i < n; i += 4 {
		end := i + 4
		if end > n {
			end = n
		}
		copy(d[i:end], s[i:end])
		mmio.Yield()
	}
}

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	}
	return true
}
