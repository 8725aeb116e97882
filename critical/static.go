package critical

import "unsafe"

// Static is a value shared between the foreground and the interrupt
// handler. The zero value holds the zero T; NewStatic gives a Static an
// initial value.
//
// When T fits a machine word and is naturally aligned, Read and Write are a
// single load or store and Replace is a single swap (no halfword swap exists,
// so a 16-bit Replace takes a critical section). Any other T is copied with
// interrupts masked. Either way a reader never sees half of one write and
// half of another.
//
// Read returns a copy. There is no way to borrow the stored value in place,
// since the interrupt handler may overwrite it under the reference.
type Static[T any] struct {
	v T
}

// NewStatic returns a Static holding v.
func NewStatic[T any](v T) Static[T] {
	return Static[T]{v: v}
}

func wordSized[T any]() int {
	var v T
	size := unsafe.Sizeof(v)
	if size != unsafe.Alignof(v) {
		return 0
	}
	switch size {
	case 1, 2, 4:
		return int(size)
	}
	return 0
}

// Read returns a copy of the value.
func (s *Static[T]) Read() T {
	if n := wordSized[T](); n != 0 {
		var v T
		p := unsafe.Pointer(&s.v)
		switch n {
		case 1:
			*(*uint8)(unsafe.Pointer(&v)) = load8(p)
		case 2:
			*(*uint16)(unsafe.Pointer(&v)) = load16(p)
		case 4:
			*(*uint32)(unsafe.Pointer(&v)) = load32(p)
		}
		return v
	}
	state := Disable()
	var v T
	copyValue(&v, &s.v)
	Restore(state)
	return v
}

// Write stores v.
func (s *Static[T]) Write(v T) {
	if n := wordSized[T](); n != 0 {
		p := unsafe.Pointer(&s.v)
		switch n {
		case 1:
			store8(p, *(*uint8)(unsafe.Pointer(&v)))
		case 2:
			store16(p, *(*uint16)(unsafe.Pointer(&v)))
		case 4:
			store32(p, *(*uint32)(unsafe.Pointer(&v)))
		}
		return
	}
	state := Disable()
	copyValue(&s.v, &v)
	Restore(state)
}

// Replace stores v and returns the value it replaced, indivisibly.
func (s *Static[T]) Replace(v T) T {
	var old T
	p := unsafe.Pointer(&s.v)
	switch wordSized[T]() {
	case 1:
		*(*uint8)(unsafe.Pointer(&old)) = swap8(p, *(*uint8)(unsafe.Pointer(&v)))
		return old
	case 4:
		*(*uint32)(unsafe.Pointer(&old)) = swap32(p, *(*uint32)(unsafe.Pointer(&v)))
		return old
	}
	state := Disable()
	copyValue(&old, &s.v)
	copyValue(&s.v, &v)
	Restore(state)
	return old
}
