// Package startup is the one-time boot procedure that runs before any
// package initializer: bus timing, the .data copy, the .bss clear, the
// interrupt vector, then the program.
//
// Nothing here may touch a Go global that lives in .data or .bss before the
// corresponding step has run. A Sequence is therefore driven entirely from
// its arguments, and its own state word is only written once the memory it
// sits in is valid.
package startup

import (
	"strconv"

	"advance/bios"
	"advance/bitfield"
	"advance/critical"
	"advance/irq"
	"advance/mmio"
)

// State is a step of the boot procedure. The order is fixed and each state
// is entered once.
type State uint8

const (
	PowerOn State = iota
	BusConfigured
	DataInitialized
	ZeroInitialized
	InterruptVectorInstalled
	UserCodeRunning
)

var stateNames = [...]string{
	PowerOn:                  "PowerOn",
	BusConfigured:            "BusConfigured",
	DataInitialized:          "DataInitialized",
	ZeroInitialized:          "ZeroInitialized",
	InterruptVectorInstalled: "InterruptVectorInstalled",
	UserCodeRunning:          "UserCodeRunning",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// WaitControl is the WAITCNT register: access timing for SRAM and the three
// cartridge ROM windows, the PHI output and the prefetch buffer.
type WaitControl uint16

// WAITCNT must be written before code runs from the cartridge with anything
// other than the power-on timing.
const WAITCNT = mmio.RW[WaitControl](0x04000204)

// Wait is the first-access timing of a window: 4, 3, 2 or 8 cycles.
type Wait uint8

const (
	Wait4 Wait = iota
	Wait3
	Wait2
	Wait8
)

// Cycles returns the wait in CPU cycles.
func (w Wait) Cycles() int {
	return [...]int{4, 3, 2, 8}[w&3]
}

// SRAM returns the SRAM access timing.
func (c WaitControl) SRAM() Wait { return Wait(bitfield.Get(c, 0, 2)) }

// WithSRAM sets the SRAM access timing.
func (c WaitControl) WithSRAM(w Wait) WaitControl {
	return bitfield.Set(c, 0, 2, WaitControl(w))
}

// romShift returns where wait state n (ROM at 0x08, 0x0A or 0x0C) starts.
// It is arithmetic rather than a table since DefaultConfig runs before
// .data is copied.
func romShift(n int) uint { return uint(2 + 3*n) }

// ROM returns the first-access timing of wait state n and whether its
// sequential accesses use the fast setting.
func (c WaitControl) ROM(n int) (first Wait, fastSeq bool) {
	s := romShift(n)
	return Wait(bitfield.Get(c, s, 2)), bitfield.Bit(c, s+2)
}

// WithROM sets the timing of wait state n.
func (c WaitControl) WithROM(n int, first Wait, fastSeq bool) WaitControl {
	s := romShift(n)
	c = bitfield.Set(c, s, 2, WaitControl(first))
	return bitfield.SetBit(c, s+2, fastSeq)
}

// Prefetch reports whether the ROM prefetch buffer is on.
func (c WaitControl) Prefetch() bool { return bitfield.Bit(c, 14) }

// WithPrefetch turns the prefetch buffer on or off.
func (c WaitControl) WithPrefetch(on bool) WaitControl { return bitfield.SetBit(c, 14, on) }

// Config is the boot-time configuration.
type Config struct {
	Wait WaitControl
}

// DefaultConfig returns the timing commercial cartridges use: SRAM 8
// cycles, wait state 0 at 3/1 with prefetch, wait state 2 at 8/8 for the
// save chip.
func DefaultConfig() Config {
	c := WaitControl(0).
		WithSRAM(Wait8).
		WithROM(0, Wait3, true).
		WithROM(2, Wait8, false).
		WithPrefetch(true)
	return Config{Wait: c}
}

// Layout describes the memory the sequence prepares. On the device it
// comes from linker symbols. Addresses must be word aligned.
type Layout struct {
	// DataSource is the load address of .data in ROM, DataDest its run
	// address in RAM.
	DataSource, DataDest uintptr
	DataWords            uint32

	ZeroStart uintptr
	ZeroWords uint32

	// ZeroSource is the address of a word holding zero, used as the fill
	// source for the .bss clear. It should be in ROM.
	ZeroSource uintptr
}

// Sequence runs the boot procedure once.
type Sequence struct {
	cfg    Config
	layout Layout
	state  critical.Static[State]
}

// New returns a sequence in the PowerOn state.
func New(cfg Config, layout Layout) *Sequence {
	return &Sequence{cfg: cfg, layout: layout}
}

// State returns how far the sequence has got.
func (s *Sequence) State() State {
	return s.state.Read()
}

// Run performs every step and calls entry. entry is not meant to return;
// if it does, Run issues a soft reset. Running a sequence twice is fatal.
func (s *Sequence) Run(entry func()) {
	if s.state.Read() != PowerOn {
		critical.Fatal("startup: sequence already run")
	}
	WAITCNT.Write(s.cfg.Wait)
	s.state.Write(BusConfigured)

	l := s.layout
	if l.DataWords > 0 {
		copyWords(l.DataSource, l.DataDest, l.DataWords, false)
	}
	s.state.Write(DataInitialized)

	if l.ZeroWords > 0 {
		copyWords(l.ZeroSource, l.ZeroStart, l.ZeroWords, true)
	}
	s.state.Write(ZeroInitialized)

	irq.Install()
	s.state.Write(InterruptVectorInstalled)

	s.state.Write(UserCodeRunning)
	entry()
	bios.SoftReset()
}

// copyWords moves n words with CpuFastSet, which only works in blocks of
// eight, and finishes an odd tail with CpuSet.
func copyWords(src, dst uintptr, n uint32, fill bool) {
	c := bios.CopyControl(0).WithFill(fill)
	if bulk := n &^ 7; bulk > 0 {
		bios.CpuFastSet(src, dst, c.WithCount(bulk))
		dst += uintptr(bulk) * 4
		if !fill {
			src += uintptr(bulk) * 4
		}
	}
	if tail := n & 7; tail > 0 {
		bios.CpuSet(src, dst, c.WithCount(tail).WithWords(true))
	}
}
