//go:build !tinygo

package sim

import (
	"fmt"
	"math"

	"advance/bios"
	"advance/irq"
	"advance/tinycompress"
)

const biosFlags = 0x03007FF8

// Call implements bios.Firmware.
func (m *Machine) Call(fn bios.Function, r *bios.Regs) {
	m.Calls[fn]++
	switch fn {
	case bios.FuncSoftReset:
		panic(bios.ErrSoftReset)
	case bios.FuncRegisterRAMReset:
		m.registerRAMReset(bios.ResetFlags(r.R0))
	case bios.FuncHalt, bios.FuncStop:
		m.halt()
	case bios.FuncIntrWait:
		m.intrWait(r.R0 != 0, irq.Flags(r.R1))
	case bios.FuncVBlankIntrWait:
		m.intrWait(true, irq.VBlank)
	case bios.FuncDiv:
		num, den := int32(r.R0), int32(r.R1)
		if den == 0 {
			panic("sim: Div by zero never returns")
		}
		q := num / den
		r.R0, r.R1 = uint32(q), uint32(num%den)
		if q < 0 {
			q = -q
		}
		r.R3 = uint32(q)
	case bios.FuncSqrt:
		r.R0 = uint32(isqrt(r.R0))
	case bios.FuncArcTan2:
		r.R0 = uint32(arcTan2(int16(r.R0), int16(r.R1)))
	case bios.FuncCpuSet:
		m.cpuSet(r.R0, r.R1, bios.CopyControl(r.R2))
	case bios.FuncCpuFastSet:
		m.cpuFastSet(r.R0, r.R1, bios.CopyControl(r.R2))
	case bios.FuncLZ77UnCompWRAM, bios.FuncLZ77UnCompVRAM,
		bios.FuncHuffUnComp, bios.FuncRLUnCompWRAM, bios.FuncRLUnCompVRAM:
		m.uncompress(fn, r.R0, r.R1)
	default:
		panic(fmt.Sprintf("sim: unsupported BIOS call %v", fn))
	}
}

// intrWait follows the BIOS: IME is forced on, then the CPU halts until the
// handler has recorded one of flags in the BIOS flags word.
func (m *Machine) intrWait(discard bool, flags irq.Flags) {
	if discard {
		m.write16(biosFlags, m.read16(biosFlags)&^uint16(flags))
	}
	m.write16(0x04000208, 1)
	m.check()
	for {
		got := irq.Flags(m.read16(biosFlags))
		if got&flags != 0 {
			m.write16(biosFlags, uint16(got&^flags))
			return
		}
		m.halt()
	}
}

func (m *Machine) registerRAMReset(f bios.ResetFlags) {
	if f&bios.ResetEWRAM != 0 {
		clear(m.ewram[:])
	}
	if f&bios.ResetIWRAM != 0 {
		clear(m.iwram[:len(m.iwram)-0x200])
	}
	if f&bios.ResetPalette != 0 {
		clear(m.pal[:])
	}
	if f&bios.ResetVRAM != 0 {
		clear(m.vram[:])
	}
	if f&bios.ResetOAM != 0 {
		clear(m.oam[:])
	}
	if f&bios.ResetSIO != 0 {
		clear(m.io[0x120:0x160])
	}
	if f&bios.ResetSound != 0 {
		clear(m.io[0x060:0x0B0])
	}
	if f&bios.ResetRegisters != 0 {
		clear(m.io[0x000:0x060])
		clear(m.io[0x0B0:0x120])
		clear(m.io[0x200:0x20C])
		m.timers = [4]timerState{}
	}
}

func (m *Machine) cpuSet(src, dst uint32, c bios.CopyControl) {
	n := c.Count()
	if c.Words() {
		src, dst = src&^3, dst&^3
		fill := m.read32(src)
		for i := uint32(0); i < n; i++ {
			v := fill
			if !c.Fill() {
				v = m.read32(src + 4*i)
			}
			m.write32(dst+4*i, v)
		}
		return
	}
	src, dst = src&^1, dst&^1
	fill := m.read16(src)
	for i := uint32(0); i < n; i++ {
		v := fill
		if !c.Fill() {
			v = m.read16(src + 2*i)
		}
		m.write16(dst+2*i, v)
	}
}

func (m *Machine) cpuFastSet(src, dst uint32, c bios.CopyControl) {
	n := (c.Count() + 7) &^ 7
	m.cpuSet(src, dst, c.WithCount(n).WithWords(true))
}

func (m *Machine) uncompress(fn bios.Function, src, dst uint32) {
	mem, off := m.plain(src)
	if mem == nil {
		panic(fmt.Sprintf("sim: %v source %#08x is not memory", fn, src))
	}
	out, err := tinycompress.Decompress(mem[off:])
	if err != nil {
		panic(fmt.Sprintf("sim: %v at %#08x: %v", fn, src, err))
	}
	switch fn {
	case bios.FuncLZ77UnCompVRAM, bios.FuncRLUnCompVRAM:
		// Halfword writes; an odd final byte is written with a zero pad.
		for i := 0; i < len(out); i += 2 {
			v := uint16(out[i])
			if i+1 < len(out) {
				v |= uint16(out[i+1]) << 8
			}
			m.write16(dst+uint32(i), v)
		}
	default:
		for i, b := range out {
			m.write8(dst+uint32(i), b)
		}
	}
}

func isqrt(x uint32) uint16 {
	r := uint64(math.Sqrt(float64(x)))
	for r*r > uint64(x) {
		r--
	}
	for (r+1)*(r+1) <= uint64(x) {
		r++
	}
	return uint16(r)
}

func arcTan2(x, y int16) uint16 {
	a := math.Atan2(float64(y), float64(x))
	if a < 0 {
		a += 2 * math.Pi
	}
	v := int(math.Round(a / (2 * math.Pi) * 0x10000))
	return uint16(v & 0xFFFF)
}
