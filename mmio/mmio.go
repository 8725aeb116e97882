// Package mmio provides typed access to memory-mapped hardware.
//
// A register is a typed address: RW, RO and WO are uintptr-backed types, so a
// register map is a flat list of constants such as
//
//	const DISPCNT = mmio.RW[video.DisplayControl](0x04000000)
//
// Converting an integer into one of these types is the only unsafe step. The
// caller asserts that the address is aligned for T and that the device region
// behind it accepts accesses of that width; nothing is checked afterwards.
// Several registers may alias one address, which is how a register with
// different read and write meanings (a timer's counter and reload value) is
// described.
//
// Every Read and Write is exactly one load or store of the width of T. On the
// device this goes through runtime/volatile, so the access is never cached,
// elided, merged with a neighbour, or moved across another volatile access.
// Nothing is promised about ordering against plain memory.
package mmio

import "unsafe"

// Value is the set of types a register can hold.
type Value interface {
	~uint8 | ~uint16 | ~uint32
}

// RW is a read/write register.
type RW[T Value] uintptr

// Read performs one load of the register.
func (r RW[T]) Read() T { return load[T](uintptr(r)) }

// Write performs one store to the register.
func (r RW[T]) Write(v T) { store(uintptr(r), v) }

// Swap stores v and returns the previous contents as one indivisible bus
// operation (swp/swpb). ARMv4 has no halfword swap, so Swap panics for
// 16-bit registers.
func (r RW[T]) Swap(v T) T {
	switch unsafe.Sizeof(v) {
	case 1:
		return T(swap8(uintptr(r), uint8(v)))
	case 4:
		return T(swap32(uintptr(r), uint32(v)))
	}
	panic("mmio: no halfword swap")
}

// Addr returns the register address.
func (r RW[T]) Addr() uintptr { return uintptr(r) }

// RO is a read-only register. Writes are not expressible.
type RO[T Value] uintptr

// Read performs one load of the register.
func (r RO[T]) Read() T { return load[T](uintptr(r)) }

// Addr returns the register address.
func (r RO[T]) Addr() uintptr { return uintptr(r) }

// WO is a write-only register. Reading one returns open-bus garbage on the
// device, so reads are not expressible.
type WO[T Value] uintptr

// Write performs one store to the register.
func (r WO[T]) Write(v T) { store(uintptr(r), v) }

// Addr returns the register address.
func (r WO[T]) Addr() uintptr { return uintptr(r) }

func load[T Value](addr uintptr) T {
	var v T
	switch unsafe.Sizeof(v) {
	case 1:
		return T(load8(addr))
	case 2:
		return T(load16(addr))
	}
	return T(load32(addr))
}

func store[T Value](addr uintptr, v T) {
	switch unsafe.Sizeof(v) {
	case 1:
		store8(addr, uint8(v))
	case 2:
		store16(addr, uint16(v))
	default:
		store32(addr, uint32(v))
	}
}
