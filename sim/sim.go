//go:build !tinygo

// Package sim is a host model of the device: its memory map, the IO
// registers this module drives, and the BIOS services. Attached with
// Attach, it receives every register access made through mmio and every
// firmware call made through bios, so the rest of the module runs unchanged
// under go test.
//
// The model is single threaded like the device. Time advances by a fixed
// number of cycles per bus access; timers, the display line counter and DMA
// are advanced from that clock. An interrupt is taken between two accesses
// when IME, IE and IF allow it, by calling the address stored at the BIOS
// interrupt vector.
//
// Go memory is not on the modelled bus, so host code that needs the device
// to read a buffer (a DMA fill word, an EEPROM bit stream) stages it in the
// top 256 bytes of EWRAM. Tests must leave that area alone.
package sim

import (
	"fmt"
	"testing"

	"advance/bios"
	"advance/irq"
	"advance/mmio"
)

// Debugger selects which emulator debug port the machine exposes.
type Debugger uint8

const (
	NoDebugger Debugger = iota
	MGBA
	Nocash
)

func (d Debugger) String() string {
	switch d {
	case MGBA:
		return "mGBA"
	case Nocash:
		return "no$gba"
	}
	return "none"
}

// Config describes the machine.
type Config struct {
	// CyclesPerAccess is how far the clock moves per bus access.
	CyclesPerAccess uint64

	// HaltLimit bounds how long a halt may wait for an interrupt before the
	// model gives up and panics. On hardware such a halt never ends.
	HaltLimit uint64

	Debugger Debugger

	// EEPROMSize is 0 for no EEPROM, 512 or 8192.
	EEPROMSize int

	// SRAM enables 32KiB of battery-backed SRAM at 0x0E000000.
	SRAM bool
}

// DefaultConfig returns a machine with an mGBA debug port and no save
// media.
func DefaultConfig() Config {
	return Config{
		CyclesPerAccess: 4,
		HaltLimit:       10 * CyclesPerFrame,
		Debugger:        MGBA,
	}
}

// Message is one line written to an emulator debug port.
type Message struct {
	Port  Debugger
	Level int
	Text  string
}

// Machine is the device model.
type Machine struct {
	cfg Config

	bios  [0x4000]byte
	ewram [0x40000]byte
	iwram [0x8000]byte
	io    [0x400]byte
	pal   [0x400]byte
	vram  [0x18000]byte
	oam   [0x400]byte
	rom   []byte
	sram  []byte

	eeprom *eeprom

	cycles    uint64
	line      int
	lineCycle uint64
	timers    [4]timerState
	dma       [4]dmaState

	inIRQ   bool
	halting bool
	wake    bool

	keys   uint16
	serial []byte
	sioIn  []byte

	mgbaEnabled bool
	mgbaBuf     [256]byte
	nocashLine  []byte
	messages    []Message

	hook func(addr uint32, write bool)

	// Counters for tests.
	Calls        map[bios.Function]int
	Deliveries   int
	DMATransfers [4]int
	Unmapped     []uint32
}

// New builds a powered-on machine.
func New(cfg Config) *Machine {
	if cfg.CyclesPerAccess == 0 {
		cfg.CyclesPerAccess = 4
	}
	if cfg.HaltLimit == 0 {
		cfg.HaltLimit = 10 * CyclesPerFrame
	}
	m := &Machine{
		cfg:   cfg,
		keys:  0x3FF,
		Calls: make(map[bios.Function]int),
	}
	if cfg.SRAM {
		m.sram = make([]byte, 0x8000)
		for i := range m.sram {
			m.sram[i] = 0xFF
		}
	}
	if cfg.EEPROMSize != 0 {
		m.eeprom = newEEPROM(cfg.EEPROMSize)
	}
	return m
}

// Attach builds a machine with the default configuration and installs it
// as the bus and firmware for the duration of the test.
func Attach(t testing.TB) *Machine {
	return AttachConfig(t, DefaultConfig())
}

// AttachConfig is Attach with an explicit configuration.
func AttachConfig(t testing.TB, cfg Config) *Machine {
	t.Helper()
	m := New(cfg)
	prevBus := mmio.Attach(m)
	prevFW := bios.Attach(m)
	t.Cleanup(func() {
		mmio.Attach(prevBus)
		bios.Attach(prevFW)
	})
	return m
}

// OnAccess installs fn to run after every bus access the foreground makes,
// before pending interrupts are considered. It does not run inside the
// interrupt handler. Raising an interrupt from fn models an interrupt
// arriving at that instruction boundary.
func (m *Machine) OnAccess(fn func(addr uint32, write bool)) {
	m.hook = fn
}

// LoadROM places data at the start of cartridge ROM.
func (m *Machine) LoadROM(data []byte) {
	m.rom = append([]byte(nil), data...)
}

// Cycles returns the clock.
func (m *Machine) Cycles() uint64 { return m.cycles }

// InInterrupt reports whether an interrupt handler is running.
func (m *Machine) InInterrupt() bool { return m.inIRQ }

// Messages returns the lines written to the debug port.
func (m *Machine) Messages() []Message { return m.messages }

// Serial returns the bytes sent on the link port in UART mode.
func (m *Machine) Serial() []byte { return m.serial }

// SendSerial queues bytes for the link port to receive.
func (m *Machine) SendSerial(b ...byte) { m.sioIn = append(m.sioIn, b...) }

// Load8 implements mmio.Bus.
func (m *Machine) Load8(addr uint32) uint8 {
	v := m.read8(addr)
	m.step(addr, false)
	return v
}

// Load16 implements mmio.Bus.
func (m *Machine) Load16(addr uint32) uint16 {
	v := m.read16(addr)
	m.step(addr, false)
	return v
}

// Load32 implements mmio.Bus.
func (m *Machine) Load32(addr uint32) uint32 {
	v := m.read32(addr)
	m.step(addr, false)
	return v
}

// Store8 implements mmio.Bus.
func (m *Machine) Store8(addr uint32, v uint8) {
	m.write8(addr, v)
	m.step(addr, true)
}

// Store16 implements mmio.Bus.
func (m *Machine) Store16(addr uint32, v uint16) {
	m.write16(addr, v)
	m.step(addr, true)
}

// Store32 implements mmio.Bus.
func (m *Machine) Store32(addr uint32, v uint32) {
	m.write32(addr, v)
	m.step(addr, true)
}

// Swap8 is swpb: the load and the store are one bus transaction.
func (m *Machine) Swap8(addr uint32, v uint8) uint8 {
	old := m.read8(addr)
	m.write8(addr, v)
	m.step(addr, true)
	return old
}

// Swap32 is swp.
func (m *Machine) Swap32(addr uint32, v uint32) uint32 {
	old := m.read32(addr)
	m.write32(addr, v)
	m.step(addr, true)
	return old
}

// Yield passes time without a bus access.
func (m *Machine) Yield() {
	m.step(0, false)
}

// Peek16 reads without advancing the clock or running hooks.
func (m *Machine) Peek16(addr uint32) uint16 { return m.read16(addr) }

// Peek32 reads without advancing the clock or running hooks.
func (m *Machine) Peek32(addr uint32) uint32 { return m.read32(addr) }

// Poke16 writes without advancing the clock or running hooks. IO side
// effects still apply.
func (m *Machine) Poke16(addr uint32, v uint16) { m.write16(addr, v) }

// Poke32 writes without advancing the clock or running hooks.
func (m *Machine) Poke32(addr uint32, v uint32) { m.write32(addr, v) }

// Bytes copies n bytes starting at addr.
func (m *Machine) Bytes(addr uint32, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = m.read8(addr + uint32(i))
	}
	return out
}

// Fill writes b to every byte of [addr, addr+n).
func (m *Machine) Fill(addr uint32, n int, b byte) {
	for i := 0; i < n; i++ {
		m.write8(addr+uint32(i), b)
	}
}

// Write copies data to addr.
func (m *Machine) Write(addr uint32, data []byte) {
	for i, b := range data {
		m.write8(addr+uint32(i), b)
	}
}

func (m *Machine) step(addr uint32, write bool) {
	m.advance(m.cfg.CyclesPerAccess)
	if m.hook != nil && !m.inIRQ {
		m.hook(addr, write)
	}
	m.check()
}

// Raise requests the interrupts in f, as a peripheral would.
func (m *Machine) Raise(f irq.Flags) {
	m.request(f)
	m.check()
}

func (m *Machine) request(f irq.Flags) {
	m.setIO16(ioIF, m.io16(ioIF)|uint16(f))
	if m.io16(ioIE)&uint16(f) != 0 {
		m.wake = true
	}
}

const maxBackToBack = 1000

// check takes the interrupt if IME, IE and IF allow it and no handler is
// running. The BIOS prologue is not modelled beyond jumping through the
// vector with further interrupts held off.
func (m *Machine) check() {
	for n := 0; !m.inIRQ && m.io16(ioIME)&1 != 0 && m.io16(ioIE)&m.io16(ioIF) != 0; n++ {
		if n == maxBackToBack {
			panic(fmt.Sprintf("sim: interrupt never acknowledged (IE=%v IF=%v)",
				irq.Flags(m.io16(ioIE)), irq.Flags(m.io16(ioIF))))
		}
		vector := m.read32(0x03007FFC)
		m.inIRQ = true
		m.Deliveries++
		ok := mmio.Call(vector)
		m.inIRQ = false
		if !ok {
			panic(fmt.Sprintf("sim: interrupt vector %#08x is not code", vector))
		}
	}
}

// halt waits for an enabled interrupt request. The request is taken by
// check as soon as it is raised, so halt returns after the handler.
func (m *Machine) halt() {
	if m.inIRQ {
		panic("sim: halt inside the interrupt handler")
	}
	m.wake = m.io16(ioIE)&m.io16(ioIF) != 0
	start := m.cycles
	for !m.wake {
		if m.cycles-start > m.cfg.HaltLimit {
			panic(fmt.Sprintf("sim: halted for %d cycles and nothing woke (IE=%v)",
				m.cycles-start, irq.Flags(m.io16(ioIE))))
		}
		m.advance(m.nextEvent())
		m.check()
	}
	m.wake = false
	m.check()
}

func (m *Machine) unmapped(addr uint32) {
	m.Unmapped = append(m.Unmapped, addr)
}
