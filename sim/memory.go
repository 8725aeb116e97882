//go:build !tinygo

package sim

import "encoding/binary"

// plain returns the backing bytes of an ordinary memory region and the
// offset of addr in it, or nil.
func (m *Machine) plain(addr uint32) ([]byte, uint32) {
	switch addr >> 24 {
	case 0x00:
		if addr < uint32(len(m.bios)) {
			return m.bios[:], addr
		}
	case 0x02:
		return m.ewram[:], addr & 0x3FFFF
	case 0x03:
		return m.iwram[:], addr & 0x7FFF
	case 0x05:
		return m.pal[:], addr & 0x3FF
	case 0x06:
		off := addr & 0x1FFFF
		if off >= 0x18000 {
			off -= 0x8000
		}
		return m.vram[:], off
	case 0x07:
		return m.oam[:], addr & 0x3FF
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C:
		off := addr & 0x1FFFFFF
		if off < uint32(len(m.rom)) {
			return m.rom, off
		}
	}
	return nil, 0
}

func readOnly(addr uint32) bool {
	region := addr >> 24
	return region == 0x00 || (region >= 0x08 && region <= 0x0C)
}

// openBus is what an empty cartridge slot returns: the address lines.
func openBus(addr uint32) uint16 {
	return uint16(addr >> 1)
}

func (m *Machine) read8(addr uint32) uint8 {
	if mem, off := m.plain(addr); mem != nil {
		return mem[off]
	}
	if addr>>24 == 0x0E || addr>>24 == 0x0F {
		if m.sram != nil {
			return m.sram[addr&uint32(len(m.sram)-1)]
		}
		return 0xFF
	}
	return uint8(m.read16(addr&^1) >> (8 * (addr & 1)))
}

func (m *Machine) read16(addr uint32) uint16 {
	addr &^= 1
	if mem, off := m.plain(addr); mem != nil && int(off)+2 <= len(mem) {
		return binary.LittleEndian.Uint16(mem[off:])
	}
	switch addr >> 24 {
	case 0x00:
		return 0
	case 0x04:
		return m.ioRead16(addr)
	case 0x08, 0x09, 0x0A, 0x0B, 0x0C:
		return openBus(addr)
	case 0x0D:
		if m.eeprom != nil {
			return m.eeprom.read()
		}
		return openBus(addr)
	case 0x0E, 0x0F:
		if m.sram != nil {
			b := uint16(m.sram[addr&uint32(len(m.sram)-1)])
			return b | b<<8
		}
		return 0xFFFF
	}
	m.unmapped(addr)
	return 0
}

func (m *Machine) read32(addr uint32) uint32 {
	addr &^= 3
	if mem, off := m.plain(addr); mem != nil && int(off)+4 <= len(mem) {
		return binary.LittleEndian.Uint32(mem[off:])
	}
	if addr>>24 == 0x0E || addr>>24 == 0x0F {
		b := uint32(m.read16(addr) & 0xFF)
		return b * 0x01010101
	}
	return uint32(m.read16(addr)) | uint32(m.read16(addr+2))<<16
}

func (m *Machine) write8(addr uint32, v uint8) {
	if mem, off := m.plain(addr); mem != nil {
		if !readOnly(addr) {
			mem[off] = v
		}
		return
	}
	switch addr >> 24 {
	case 0x04:
		m.ioWrite8(addr, v)
	case 0x0E, 0x0F:
		if m.sram != nil {
			m.sram[addr&uint32(len(m.sram)-1)] = v
		}
	case 0x0D:
		m.write16(addr&^1, uint16(v))
	default:
		if !readOnly(addr) {
			m.unmapped(addr)
		}
	}
}

func (m *Machine) write16(addr uint32, v uint16) {
	addr &^= 1
	if mem, off := m.plain(addr); mem != nil && int(off)+2 <= len(mem) {
		if !readOnly(addr) {
			binary.LittleEndian.PutUint16(mem[off:], v)
		}
		return
	}
	switch addr >> 24 {
	case 0x04:
		m.ioWrite16(addr, v)
	case 0x0D:
		if m.eeprom != nil {
			m.eeprom.write(v)
		}
	case 0x0E, 0x0F:
		// 8-bit bus: the byte on the addressed lane lands.
		m.write8(addr, uint8(v>>(8*(addr&1))))
	default:
		if !readOnly(addr) {
			m.unmapped(addr)
		}
	}
}

func (m *Machine) write32(addr uint32, v uint32) {
	addr &^= 3
	if mem, off := m.plain(addr); mem != nil && int(off)+4 <= len(mem) {
		if !readOnly(addr) {
			binary.LittleEndian.PutUint32(mem[off:], v)
		}
		return
	}
	if addr>>24 == 0x0E || addr>>24 == 0x0F {
		m.write8(addr, uint8(v))
		return
	}
	m.write16(addr, uint16(v))
	m.write16(addr+2, uint16(v>>16))
}
