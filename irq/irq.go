// Package irq owns the interrupt controller: the enable and request
// registers, the BIOS acknowledgement word and the single user callback.
//
// The device has one interrupt vector. The BIOS saves a few registers, reads
// the address at Vector and jumps there in IRQ mode. Install points Vector
// at this package's dispatcher, which acknowledges everything pending and
// hands the set to the callback registered with SetHandler.
package irq

import (
	"strings"

	"advance/critical"
	"advance/mmio"
)

// Flags is a set of interrupt sources, in the bit layout of IE and IF.
type Flags uint16

const (
	VBlank Flags = 1 << iota
	HBlank
	VCounter
	Timer0
	Timer1
	Timer2
	Timer3
	Serial
	DMA0
	DMA1
	DMA2
	DMA3
	Keypad
	Gamepak

	// All is every source.
	All Flags = 1<<14 - 1
)

var flagNames = [...]string{
	"VBlank", "HBlank", "VCounter",
	"Timer0", "Timer1", "Timer2", "Timer3",
	"Serial",
	"DMA0", "DMA1", "DMA2", "DMA3",
	"Keypad", "Gamepak",
}

// Timer returns the flag of timer n (0-3).
func Timer(n int) Flags { return Timer0 << n }

// DMA returns the flag of DMA channel n (0-3).
func DMA(n int) Flags { return DMA0 << n }

// Has reports whether every flag in x is set in f.
func (f Flags) Has(x Flags) bool { return f&x == x }

// String lists the set sources joined by '|'.
func (f Flags) String() string {
	if f == 0 {
		return "0"
	}
	var b strings.Builder
	for i, name := range flagNames {
		if f&(1<<i) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
	}
	if rest := f &^ All; rest != 0 {
		if b.Len() > 0 {
			b.WriteByte('|')
		}
		b.WriteString("0x")
		const hex = "0123456789abcdef"
		for shift := 12; shift >= 0; shift -= 4 {
			b.WriteByte(hex[rest>>shift&0xF])
		}
	}
	return b.String()
}

// Registers.
const (
	IE        = mmio.RW[Flags](0x04000200) // enabled sources
	IF        = mmio.RW[Flags](0x04000202) // requested sources, write 1 to clear
	BIOSFlags = mmio.RW[Flags](0x03007FF8) // acknowledgement read by IntrWait
	Vector    = mmio.RW[uint32](0x03007FFC)
)

// Handler receives the set of sources a dispatch acknowledged.
type Handler func(Flags)

var (
	handler    critical.Static[Handler]
	dispatches critical.Static[uint32]
)

// Enable adds f to IE.
func Enable(f Flags) {
	state := critical.Disable()
	IE.Write(IE.Read() | f)
	critical.Restore(state)
}

// Disable removes f from IE.
func Disable(f Flags) {
	state := critical.Disable()
	IE.Write(IE.Read() &^ f)
	critical.Restore(state)
}

// Enabled returns IE.
func Enabled() Flags {
	return IE.Read()
}

// SetHandler registers the callback run on every dispatch and returns the
// previous one. A nil handler leaves interrupts acknowledged but otherwise
// ignored. The callback runs with IME off and must not enable it.
func SetHandler(h Handler) Handler {
	return handler.Replace(h)
}

// Install points the BIOS interrupt vector at the dispatcher and turns IME
// on. Sources still need Enable.
func Install() {
	Vector.Write(entry())
	critical.IME.Write(1)
}

// Dispatches returns how many times the dispatcher has run.
func Dispatches() uint32 {
	return dispatches.Read()
}

// dispatch acknowledges every pending enabled source and runs the handler.
//
// IF is written back even when the handler is nil: an unacknowledged level
// would re-enter the vector immediately forever. BIOSFlags is OR-ed so that
// an IntrWait in the foreground sees sources acknowledged here.
func dispatch() {
	saved := critical.Disable()
	pending := IE.Read() & IF.Read()
	IF.Write(pending)
	BIOSFlags.Write(BIOSFlags.Read() | pending)
	dispatches.Write(dispatches.Read() + 1)
	if h := handler.Read(); h != nil {
		h(pending)
	}
	critical.Restore(saved)
}
