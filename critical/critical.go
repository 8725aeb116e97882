// Package critical holds the primitives for sharing state between the
// foreground program and the interrupt handler on a single core.
//
// There is exactly one foreground flow of control and one interrupt path, and
// the interrupt path never nests. A critical section is therefore just "IME
// off": Disable swaps the master enable to zero in one bus transaction and
// returns what was there, Restore puts it back.
//
//	state := critical.Disable()
//	defer critical.Restore(state)
package critical

import (
	"errors"

	"advance/mmio"
)

// IME is the interrupt master enable. Only bit 0 is meaningful.
const IME = mmio.RW[uint32](0x04000208)

var (
	// ErrReentrant is returned by Once.Get when it is called again while its
	// initializer is still running, which can only happen from the
	// interrupt handler or from the initializer itself.
	ErrReentrant = errors.New("critical: reentrant initialization")

	// ErrFatal marks a logic error that stopped the program.
	ErrFatal = errors.New("critical: fatal error")
)

// State is a saved value of IME.
type State uint32

// Disable masks all interrupts and returns the previous master enable. The
// read and the clear are one swap, so an interrupt cannot slip in between.
func Disable() State {
	return State(IME.Swap(0))
}

// Restore writes back a value returned by Disable. Sections nest: an inner
// Restore of a zero State leaves interrupts masked for the outer section.
func Restore(s State) {
	IME.Write(uint32(s))
}

// Run calls fn with interrupts masked.
func Run(fn func()) {
	state := Disable()
	defer Restore(state)
	fn()
}

var fatalWriter func(string)

// SetFatalWriter sets the function Fatal reports through before it stops.
// The debug package installs itself here.
func SetFatalWriter(w func(string)) {
	fatalWriter = w
}

// Fatal reports msg, masks interrupts and stops. It does not return.
func Fatal(msg string) {
	Disable()
	if w := fatalWriter; w != nil {
		w(msg)
	}
	halt(msg)
}
