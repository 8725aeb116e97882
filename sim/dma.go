//go:build !tinygo

package sim

import "advance/irq"

const (
	dmaImmediate = 0
	dmaVBlank    = 1
	dmaHBlank    = 2
	dmaSpecial   = 3
)

// dmaState is the internal copy of the address and count registers,
// latched when a channel is enabled.
type dmaState struct {
	src, dst uint32
	count    uint32
}

func dmaBase(ch int) uint32 { return ioDMA0 + uint32(ch)*12 }

func (m *Machine) dmaCNT(ch int) uint16 { return m.io16(dmaBase(ch) + 10) }

func (m *Machine) dmaCount(ch int) uint32 {
	n := uint32(m.io16(dmaBase(ch) + 8))
	if ch == 3 {
		if n == 0 {
			n = 0x10000
		}
		return n
	}
	n &= 0x3FFF
	if n == 0 {
		n = 0x4000
	}
	return n
}

func (m *Machine) dmaControl(ch int, old, v uint16) {
	if v&0x8000 == 0 || old&0x8000 != 0 {
		return
	}
	base := dmaBase(ch)
	// Channel 0 cannot read the cartridge; only channel 3 can write it.
	srcMask := uint32(0x0FFFFFFF)
	if ch == 0 {
		srcMask = 0x07FFFFFF
	}
	dstMask := uint32(0x07FFFFFF)
	if ch == 3 {
		dstMask = 0x0FFFFFFF
	}
	m.dma[ch] = dmaState{
		src:   (uint32(m.io16(base)) | uint32(m.io16(base+2))<<16) & srcMask,
		dst:   (uint32(m.io16(base+4)) | uint32(m.io16(base+6))<<16) & dstMask,
		count: m.dmaCount(ch),
	}
	if v>>12&3 == dmaImmediate {
		m.dmaRun(ch)
	}
}

func (m *Machine) dmaTrigger(timing uint16) {
	for ch := range m.dma {
		cnt := m.dmaCNT(ch)
		if cnt&0x8000 != 0 && cnt>>12&3 == timing {
			m.dmaRun(ch)
		}
	}
}

func (m *Machine) dmaRun(ch int) {
	cnt := m.dmaCNT(ch)
	st := &m.dma[ch]

	size := uint32(2)
	if cnt&(1<<10) != 0 {
		size = 4
	}
	step := func(adj uint16) uint32 {
		switch adj {
		case 1:
			return -size
		case 2:
			return 0
		}
		return size
	}
	dstAdj := cnt >> 5 & 3
	srcStep, dstStep := step(cnt>>7&3), step(dstAdj)

	src, dst := st.src&^(size-1), st.dst&^(size-1)
	for i := uint32(0); i < st.count; i++ {
		if size == 4 {
			m.write32(dst, m.read32(src))
		} else {
			m.write16(dst, m.read16(src))
		}
		src += srcStep
		dst += dstStep
	}
	st.src = src
	st.dst = dst
	m.DMATransfers[ch]++

	if cnt&(1<<14) != 0 {
		m.request(irq.DMA(ch))
	}
	if cnt&(1<<9) != 0 && cnt>>12&3 != dmaImmediate {
		st.count = m.dmaCount(ch)
		if dstAdj == 3 {
			base := dmaBase(ch)
			st.dst = uint32(m.io16(base+4)) | uint32(m.io16(base+6))<<16
		}
		return
	}
	m.setIO16(dmaBase(ch)+10, cnt&^0x8000)
}
