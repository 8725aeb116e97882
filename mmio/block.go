package mmio

import "unsafe"

// Block is a run of equally spaced registers: palette RAM, OAM, a bitmap
// frame buffer, a FIFO window. Elements are Stride bytes apart.
type Block[T Value] struct {
	base   uintptr
	stride uintptr
	n      int
}

// NewBlock describes n packed elements of T starting at base.
func NewBlock[T Value](base uintptr, n int) Block[T] {
	var v T
	return Block[T]{base: base, stride: unsafe.Sizeof(v), n: n}
}

// NewStridedBlock describes n elements of T starting at base, stride bytes
// apart. OAM attribute words are the usual example.
func NewStridedBlock[T Value](base, stride uintptr, n int) Block[T] {
	return Block[T]{base: base, stride: stride, n: n}
}

// Len returns the number of elements.
func (b Block[T]) Len() int { return b.n }

// Addr returns the address of element 0.
func (b Block[T]) Addr() uintptr { return b.base }

// Stride returns the distance in bytes between elements.
func (b Block[T]) Stride() uintptr { return b.stride }

// Get returns element i and whether i is in range.
func (b Block[T]) Get(i int) (RW[T], bool) {
	if i < 0 || i >= b.n {
		return 0, false
	}
	return b.Index(i), true
}

// At returns element i and panics when i is out of range.
func (b Block[T]) At(i int) RW[T] {
	if i < 0 || i >= b.n {
		panic("mmio: block index out of range")
	}
	return b.Index(i)
}

// Index returns element i without a range check.
func (b Block[T]) Index(i int) RW[T] {
	return RW[T](b.base + uintptr(i)*b.stride)
}

// Slice returns the sub-block [lo, hi). It panics if the bounds are invalid.
func (b Block[T]) Slice(lo, hi int) Block[T] {
	if lo < 0 || hi < lo || hi > b.n {
		panic("mmio: block slice out of range")
	}
	return Block[T]{base: b.base + uintptr(lo)*b.stride, stride: b.stride, n: hi - lo}
}
