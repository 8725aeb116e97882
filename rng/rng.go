// Package rng is a 32-bit linear congruential generator: each step is
// state*Multiplier + inc, and the output is the new state.
//
// An LCG value is plain data and not safe to share with the interrupt
// handler. The package-level functions use one generator that is.
package rng

import "advance/critical"

// Multiplier is the LCG multiplier, the 32-bit PCG constant.
const Multiplier = 32310901

// AdvanceState returns the state after one step.
func AdvanceState(state, inc uint32) uint32 {
	return state*Multiplier + inc
}

// LCG is a generator. The zero value starts at state 0 with increment 1.
type LCG struct {
	state uint32
	inc   uint32 // stored as inc-1 so the zero value is usable
}

// New returns a generator at state with increment inc. An even increment
// is made odd, since only odd increments give the full 2^32 period.
func New(state, inc uint32) LCG {
	return LCG{state: state, inc: (inc | 1) - 1}
}

// State returns the current state.
func (g *LCG) State() uint32 { return g.state }

// Increment returns the increment.
func (g *LCG) Increment() uint32 { return g.inc + 1 }

// Uint32 advances the state and returns it.
func (g *LCG) Uint32() uint32 {
	g.state = AdvanceState(g.state, g.inc+1)
	return g.state
}

// Uint32n returns a value in [0, n). The high bits of an LCG are its best,
// so the output is scaled rather than reduced modulo n.
func (g *LCG) Uint32n(n uint32) uint32 {
	return uint32(uint64(g.Uint32()) * uint64(n) >> 32)
}

// Int63 makes LCG a math/rand Source.
func (g *LCG) Int63() int64 {
	hi := uint64(g.Uint32())
	lo := uint64(g.Uint32())
	return int64((hi<<32 | lo) >> 1)
}

// Seed makes LCG a math/rand Source. It sets the state and keeps the
// increment.
func (g *LCG) Seed(seed int64) {
	g.state = uint32(seed)
}

var shared critical.Static[LCG]

// Seed sets the state of the shared generator.
func Seed(state, inc uint32) {
	shared.Write(New(state, inc))
}

// Uint32 steps the shared generator. The step is one critical section, so
// the foreground and the interrupt handler never draw the same value.
func Uint32() uint32 {
	var v uint32
	critical.Run(func() {
		g := shared.Read()
		v = g.Uint32()
		shared.Write(g)
	})
	return v
}

// Uint32n returns a value in [0, n) from the shared generator.
func Uint32n(n uint32) uint32 {
	return uint32(uint64(Uint32()) * uint64(n) >> 32)
}
