//go:build !tinygo

package sim

import (
	"encoding/binary"

	"advance/irq"
)

// IO register offsets from 0x04000000.
const (
	ioDISPCNT  = 0x000
	ioDISPSTAT = 0x004
	ioVCOUNT   = 0x006
	ioDMA0     = 0x0B0
	ioDMAEnd   = 0x0E0
	ioTM0      = 0x100
	ioTMEnd    = 0x110
	ioSIOCNT   = 0x128
	ioSIODATA8 = 0x12A
	ioKEYINPUT = 0x130
	ioKEYCNT   = 0x132
	ioRCNT     = 0x134
	ioIE       = 0x200
	ioIF       = 0x202
	ioWAITCNT  = 0x204
	ioIME      = 0x208
	ioPOSTFLG  = 0x300
	ioHALTCNT  = 0x301
)

// Emulator debug ports.
const (
	mgbaString = 0x04FFF600
	mgbaFlags  = 0x04FFF700
	mgbaEnable = 0x04FFF780
	nocashID   = 0x04FFFA00
	nocashChar = 0x04FFFA1C
)

const nocashSignature = "no$gba v3.05"

func (m *Machine) io16(off uint32) uint16 {
	return binary.LittleEndian.Uint16(m.io[off:])
}

func (m *Machine) setIO16(off uint32, v uint16) {
	binary.LittleEndian.PutUint16(m.io[off:], v)
}

func (m *Machine) ioRead16(addr uint32) uint16 {
	off := addr - 0x04000000
	if off >= uint32(len(m.io)) {
		return m.debugRead16(addr)
	}
	switch {
	case off == ioDISPSTAT:
		return m.io16(ioDISPSTAT)&^7 | m.displayStatus()
	case off == ioVCOUNT:
		return uint16(m.line)
	case off >= ioTM0 && off < ioTMEnd && off%4 == 0:
		return m.timers[(off-ioTM0)/4].counter
	case off == ioKEYINPUT:
		return m.keys
	case off == ioSIOCNT:
		v := m.io16(ioSIOCNT) &^ (1<<4 | 1<<5)
		if len(m.sioIn) == 0 {
			v |= 1 << 5
		}
		return v
	case off == ioSIODATA8:
		if len(m.sioIn) == 0 {
			return 0
		}
		b := m.sioIn[0]
		m.sioIn = m.sioIn[1:]
		return uint16(b)
	}
	return m.io16(off)
}

func (m *Machine) ioWrite8(addr uint32, v uint8) {
	off := addr - 0x04000000
	if off >= uint32(len(m.io)) {
		m.debugWrite8(addr, v)
		return
	}
	switch off {
	case ioHALTCNT:
		m.haltcnt(v)
		return
	case ioPOSTFLG:
		m.io[off] = v
		return
	case ioIF, ioIF + 1:
		m.io[off] &^= v
		return
	case ioSIODATA8:
		m.sioSend(v)
		return
	}
	half := off &^ 1
	cur := m.io16(half)
	if off&1 == 0 {
		cur = cur&0xFF00 | uint16(v)
	} else {
		cur = cur&0x00FF | uint16(v)<<8
	}
	m.ioWrite16(addr&^1, cur)
}

func (m *Machine) ioWrite16(addr uint32, v uint16) {
	off := addr - 0x04000000
	if off >= uint32(len(m.io)) {
		m.debugWrite16(addr, v)
		return
	}
	switch {
	case off == ioDISPSTAT:
		m.setIO16(off, v&^7)
	case off == ioVCOUNT, off == ioKEYINPUT:
	case off >= ioDMA0 && off < ioDMAEnd:
		ch := int(off-ioDMA0) / 12
		if (off-ioDMA0)%12 == 10 {
			old := m.io16(off)
			m.setIO16(off, v)
			m.dmaControl(ch, old, v)
			return
		}
		m.setIO16(off, v)
	case off >= ioTM0 && off < ioTMEnd:
		n := int(off-ioTM0) / 4
		if off%4 == 0 {
			m.timers[n].reload = v
			return
		}
		m.timerControl(n, v)
	case off == ioSIODATA8:
		m.sioSend(uint8(v))
	case off == ioKEYCNT:
		m.setIO16(off, v)
		m.keypadCheck()
	case off == ioIF:
		m.setIO16(off, m.io16(off)&^v)
	case off == ioIE:
		m.setIO16(off, v&uint16(irq.All))
		if m.io16(ioIE)&m.io16(ioIF) != 0 {
			m.wake = true
		}
	case off == ioIME:
		m.setIO16(off, v&1)
	case off == ioPOSTFLG:
		m.io[ioPOSTFLG] = uint8(v)
		m.haltcnt(uint8(v >> 8))
	default:
		m.setIO16(off, v)
	}
}

func (m *Machine) haltcnt(v uint8) {
	m.io[ioHALTCNT] = v
	m.halt()
}

func (m *Machine) sioSend(v uint8) {
	m.io[ioSIODATA8] = v
	rcnt := m.io16(ioRCNT)
	sio := m.io16(ioSIOCNT)
	if rcnt&0x8000 != 0 || sio>>12&3 != 3 || sio&(1<<10) == 0 {
		return
	}
	m.serial = append(m.serial, v)
	if sio&(1<<14) != 0 {
		m.request(irq.Serial)
	}
}

// SetKeys sets the held buttons, one bit per button in KEYINPUT order
// (A, B, Select, Start, Right, Left, Up, Down, R, L).
func (m *Machine) SetKeys(held uint16) {
	m.keys = ^held & 0x3FF
	m.keypadCheck()
}

func (m *Machine) keypadCheck() {
	cnt := m.io16(ioKEYCNT)
	if cnt&(1<<14) == 0 {
		return
	}
	sel := cnt & 0x3FF
	held := ^m.keys & 0x3FF
	if cnt&(1<<15) != 0 {
		if sel != 0 && held&sel == sel {
			m.request(irq.Keypad)
		}
	} else if held&sel != 0 {
		m.request(irq.Keypad)
	}
}

func (m *Machine) debugRead16(addr uint32) uint16 {
	switch {
	case addr == mgbaEnable && m.cfg.Debugger == MGBA && m.mgbaEnabled:
		return 0x1DEA
	case addr >= nocashID && addr < nocashID+16 && m.cfg.Debugger == Nocash:
		i := int(addr - nocashID)
		var lo, hi byte
		if i < len(nocashSignature) {
			lo = nocashSignature[i]
		}
		if i+1 < len(nocashSignature) {
			hi = nocashSignature[i+1]
		}
		return uint16(lo) | uint16(hi)<<8
	case addr >= mgbaString && addr < mgbaString+256 && m.cfg.Debugger == MGBA:
		i := addr - mgbaString
		return uint16(m.mgbaBuf[i]) | uint16(m.mgbaBuf[i+1])<<8
	}
	return 0
}

func (m *Machine) debugWrite8(addr uint32, v uint8) {
	switch {
	case addr >= mgbaString && addr < mgbaString+256:
		if m.cfg.Debugger == MGBA && m.mgbaEnabled {
			m.mgbaBuf[addr-mgbaString] = v
		}
	case addr == nocashChar:
		if m.cfg.Debugger != Nocash {
			return
		}
		if v == '\n' {
			m.messages = append(m.messages, Message{Port: Nocash, Text: string(m.nocashLine)})
			m.nocashLine = m.nocashLine[:0]
			return
		}
		m.nocashLine = append(m.nocashLine, v)
	default:
		cur := m.debugRead16(addr &^ 1)
		if addr&1 == 0 {
			cur = cur&0xFF00 | uint16(v)
		} else {
			cur = cur&0x00FF | uint16(v)<<8
		}
		m.debugWrite16(addr&^1, cur)
	}
}

func (m *Machine) debugWrite16(addr uint32, v uint16) {
	switch {
	case addr >= mgbaString && addr < mgbaString+256:
		m.debugWrite8(addr, uint8(v))
		m.debugWrite8(addr+1, uint8(v>>8))
	case addr == mgbaEnable:
		if m.cfg.Debugger == MGBA {
			m.mgbaEnabled = v == 0xC0DE
		}
	case addr == mgbaFlags:
		if m.cfg.Debugger != MGBA || !m.mgbaEnabled || v&0x100 == 0 {
			return
		}
		n := 0
		for n < len(m.mgbaBuf) && m.mgbaBuf[n] != 0 {
			n++
		}
		m.messages = append(m.messages, Message{Port: MGBA, Level: int(v & 7), Text: string(m.mgbaBuf[:n])})
		m.mgbaBuf = [256]byte{}
	case addr == nocashChar:
		m.debugWrite8(addr, uint8(v))
	}
}
