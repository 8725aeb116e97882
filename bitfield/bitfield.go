// Package bitfield holds the bit-range arithmetic behind every register value
// type in this module.
//
// A register value is a named unsigned integer (video.DisplayControl,
// dma.Control, ...). Its accessors call Get and Set with constant shift and
// width, so each accessor compiles down to a shift and a mask. Set never
// mutates: it returns a new value with the range replaced and everything
// outside the range untouched. Values wider than the field are truncated to
// the low width bits, the same masking the hardware applies.
package bitfield

// Storage is the set of integer widths a register can have.
type Storage interface {
	~uint8 | ~uint16 | ~uint32
}

// Mask returns a value with the low width bits set.
func Mask[T Storage](width uint) T {
	return (T(1) << width) - 1
}

// Get extracts the width bits starting at shift, right aligned.
func Get[T Storage](v T, shift, width uint) T {
	return (v >> shift) & Mask[T](width)
}

// Set returns v with the width bits at shift replaced by the low width bits
// of x.
func Set[T Storage](v T, shift, width uint, x T) T {
	m := Mask[T](width) << shift
	return v&^m | (x<<shift)&m
}

// Bit reports whether bit n of v is set.
func Bit[T Storage](v T, n uint) bool {
	return v&(T(1)<<n) != 0
}

// SetBit returns v with bit n set to on.
func SetBit[T Storage](v T, n uint, on bool) T {
	if on {
		return v | T(1)<<n
	}
	return v &^ (T(1) << n)
}
