//go:build !tinygo

package mmio

// Bus is the host stand-in for the device address space. Addresses are the
// device's 32-bit physical addresses.
type Bus interface {
	Load8(addr uint32) uint8
	Load16(addr uint32) uint16
	Load32(addr uint32) uint32
	Store8(addr uint32, v uint8)
	Store16(addr uint32, v uint16)
	Store32(addr uint32, v uint32)
}

var bus Bus

// Attach routes all register accesses to b and returns the previously
// attached bus. Host code runs on one goroutine, the same single flow of
// control the device has; an interrupt is delivered by the bus itself
// between two accesses.
func Attach(b Bus) Bus {
	prev := bus
	bus = b
	return prev
}

// Attached returns the current bus.
func Attached() Bus {
	return bus
}

func attached() Bus {
	if bus == nil {
		panic("mmio: no bus attached")
	}
	return bus
}

func load8(addr uintptr) uint8   { return attached().Load8(uint32(addr)) }
func load16(addr uintptr) uint16 { return attached().Load16(uint32(addr)) }
func load32(addr uintptr) uint32 { return attached().Load32(uint32(addr)) }

func store8(addr uintptr, v uint8)   { attached().Store8(uint32(addr), v) }
func store16(addr uintptr, v uint16) { attached().Store16(uint32(addr), v) }
func store32(addr uintptr, v uint32) { attached().Store32(uint32(addr), v) }

// swapper is implemented by buses that perform the exchange as a single bus
// transaction, so no interrupt can be delivered between the load and store.
type swapper interface {
	Swap8(addr uint32, v uint8) uint8
	Swap32(addr uint32, v uint32) uint32
}

func swap8(addr uintptr, v uint8) uint8 {
	b := attached()
	if s, ok := b.(swapper); ok {
		return s.Swap8(uint32(addr), v)
	}
	old := b.Load8(uint32(addr))
	b.Store8(uint32(addr), v)
	return old
}

func swap32(addr uintptr, v uint32) uint32 {
	b := attached()
	if s, ok := b.(swapper); ok {
		return s.Swap32(uint32(addr), v)
	}
	old := b.Load32(uint32(addr))
	b.Store32(uint32(addr), v)
	return old
}

// yielder is implemented by buses that model time passing between
// instructions that do not touch the bus.
type yielder interface {
	Yield()
}

// Yield marks a point between two instructions where the device could take
// an interrupt even though no register is accessed. Host code that copies
// plain memory word by word calls it between words.
func Yield() {
	if y, ok := bus.(yielder); ok {
		y.Yield()
	}
}
