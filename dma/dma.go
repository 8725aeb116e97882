// Package dma drives the four DMA channels.
//
// Channel 3 is the general purpose one; 0 is the fastest and cannot read
// the cartridge, 1 and 2 feed the sound FIFOs. A transfer started with
// Immediate timing halts the CPU until it finishes, so Copy and Fill return
// with the data in place.
//
// Channels are not owned by anyone. Programming a channel happens with
// interrupts masked, so the interrupt handler may use a channel the
// foreground also uses, but not one the foreground has left running.
package dma

import (
	"advance/bitfield"
	"advance/critical"
	"advance/mmio"
)

// Adjust is how an address moves after each unit.
type Adjust uint8

const (
	Increment Adjust = iota
	Decrement
	Fixed
	// IncrementReload increments during the transfer and reloads the
	// destination when a repeating transfer restarts. It is not valid for
	// the source.
	IncrementReload
)

func (a Adjust) String() string {
	return [...]string{"Increment", "Decrement", "Fixed", "IncrementReload"}[a&3]
}

// Timing is when a transfer starts.
type Timing uint8

const (
	Immediate Timing = iota
	AtVBlank
	AtHBlank
	// Special is sound FIFO refill on channels 1 and 2 and video capture on
	// channel 3. Channel 0 has none.
	Special
)

func (t Timing) String() string {
	return [...]string{"Immediate", "VBlank", "HBlank", "Special"}[t&3]
}

// Control is the CNT_H register of a channel.
type Control uint16

func (c Control) Dest() Adjust   { return Adjust(bitfield.Get(c, 5, 2)) }
func (c Control) Source() Adjust { return Adjust(bitfield.Get(c, 7, 2)) }
func (c Control) Repeat() bool   { return bitfield.Bit(c, 9) }
func (c Control) Word() bool     { return bitfield.Bit(c, 10) }
func (c Control) Timing() Timing { return Timing(bitfield.Get(c, 12, 2)) }
func (c Control) IRQ() bool      { return bitfield.Bit(c, 14) }
func (c Control) Enabled() bool  { return bitfield.Bit(c, 15) }

func (c Control) WithDest(a Adjust) Control   { return bitfield.Set(c, 5, 2, Control(a)) }
func (c Control) WithSource(a Adjust) Control { return bitfield.Set(c, 7, 2, Control(a)) }
func (c Control) WithRepeat(on bool) Control  { return bitfield.SetBit(c, 9, on) }
func (c Control) WithWord(on bool) Control    { return bitfield.SetBit(c, 10, on) }
func (c Control) WithTiming(t Timing) Control { return bitfield.Set(c, 12, 2, Control(t)) }
func (c Control) WithIRQ(on bool) Control     { return bitfield.SetBit(c, 14, on) }
func (c Control) WithEnabled(on bool) Control { return bitfield.SetBit(c, 15, on) }

// Valid reports whether the control value is one the hardware defines.
func (c Control) Valid() bool {
	return c.Source() != IncrementReload
}

const base = 0x040000B0

// Channel is a DMA channel number, 0-3.
type Channel uint8

// Registers of channel c.
func (c Channel) SAD() mmio.WO[uint32]   { return mmio.WO[uint32](base + 12*uintptr(c)) }
func (c Channel) DAD() mmio.WO[uint32]   { return mmio.WO[uint32](base + 12*uintptr(c) + 4) }
func (c Channel) Count() mmio.WO[uint16] { return mmio.WO[uint16](base + 12*uintptr(c) + 8) }
func (c Channel) CNT() mmio.RW[Control]  { return mmio.RW[Control](base + 12*uintptr(c) + 10) }

// MaxUnits is the largest count one transfer on c can move.
func (c Channel) MaxUnits() int {
	if c == 3 {
		return 0x10000
	}
	return 0x4000
}

// Start programs and enables the channel. n is in units of the transfer
// width and must be 1..MaxUnits; the count register holds 0 for the
// maximum.
func (c Channel) Start(dst, src uintptr, n int, ctl Control) {
	state := critical.Disable()
	c.program(dst, src, n, ctl)
	critical.Restore(state)
}

func (c Channel) program(dst, src uintptr, n int, ctl Control) {
	c.CNT().Write(0)
	c.SAD().Write(uint32(src))
	c.DAD().Write(uint32(dst))
	c.Count().Write(uint16(n))
	c.CNT().Write(ctl.WithEnabled(true))
}

// Busy reports whether the channel is enabled. A repeating transfer stays
// busy until Stop.
func (c Channel) Busy() bool {
	return c.CNT().Read().Enabled()
}

// Wait spins until the channel is idle.
func (c Channel) Wait() {
	for c.Busy() {
	}
}

// Stop disables the channel.
func (c Channel) Stop() {
	c.CNT().Write(0)
}

// run moves n units in chunks the channel can take. A fill stores its
// word in the same masked section that starts each chunk, so a fill the
// interrupt handler makes on this channel cannot replace it.
func (c Channel) run(dst, src uintptr, n int, ctl Control, fill *uint32) {
	unit := uintptr(2)
	if ctl.Word() {
		unit = 4
	}
	for n > 0 {
		chunk := min(n, c.MaxUnits())
		state := critical.Disable()
		if fill != nil {
			src = fillSource(c, *fill)
		}
		c.program(dst, src, chunk, ctl)
		critical.Restore(state)
		c.Wait()
		dst += uintptr(chunk) * unit
		if ctl.Source() != Fixed {
			src += uintptr(chunk) * unit
		}
		n -= chunk
	}
}

// Copy16 copies n halfwords from src to dst.
func (c Channel) Copy16(dst, src uintptr, n int) {
	c.run(dst, src, n, 0, nil)
}

// Copy32 copies n words from src to dst.
func (c Channel) Copy32(dst, src uintptr, n int) {
	c.run(dst, src, n, Control(0).WithWord(true), nil)
}

// Fill32 stores v into n words at dst.
func (c Channel) Fill32(dst uintptr, v uint32, n int) {
	if n <= 0 {
		return
	}
	c.run(dst, 0, n, Control(0).WithWord(true).WithSource(Fixed), &v)
}

// Fill16 stores v into n halfwords at dst. The word aligned middle of the
// range moves as words; a halfword at either end moves on its own.
func (c Channel) Fill16(dst uintptr, v uint16, n int) {
	if n <= 0 {
		return
	}
	pair := uint32(v) * 0x10001
	half := Control(0).WithSource(Fixed)
	if dst&2 != 0 {
		c.run(dst, 0, 1, half, &pair)
		dst += 2
		n--
	}
	if words := n / 2; words > 0 {
		c.run(dst, 0, words, half.WithWord(true), &pair)
		dst += uintptr(words) * 4
	}
	if n&1 != 0 {
		c.run(dst, 0, 1, half, &pair)
	}
}
