//go:build !tinygo

package sim

import "advance/irq"

// Display timing in CPU cycles.
const (
	CyclesPerLine  = 1232
	HBlankStart    = 960
	LinesPerFrame  = 228
	VisibleLines   = 160
	CyclesPerFrame = CyclesPerLine * LinesPerFrame
)

var prescalers = [4]uint64{1, 64, 256, 1024}

type timerState struct {
	counter uint16
	reload  uint16
	sub     uint64
}

func (m *Machine) timerCNT(n int) uint16 {
	return m.io16(ioTM0 + uint32(n)*4 + 2)
}

func (m *Machine) timerControl(n int, v uint16) {
	old := m.timerCNT(n)
	m.setIO16(ioTM0+uint32(n)*4+2, v)
	if v&0x80 != 0 && old&0x80 == 0 {
		m.timers[n].counter = m.timers[n].reload
		m.timers[n].sub = 0
	}
}

// tick feeds n input ticks to timer i and returns how many times it
// overflowed.
func (t *timerState) tick(n uint64) uint64 {
	total := uint64(t.counter) + n
	if total < 0x10000 {
		t.counter = uint16(total)
		return 0
	}
	period := 0x10000 - uint64(t.reload)
	over := total - 0x10000
	t.counter = t.reload + uint16(over%period)
	return 1 + over/period
}

func (m *Machine) advanceTimers(cycles uint64) {
	var carry uint64
	for i := range m.timers {
		cnt := m.timerCNT(i)
		if cnt&0x80 == 0 {
			carry = 0
			continue
		}
		t := &m.timers[i]
		var in uint64
		if i > 0 && cnt&0x04 != 0 {
			in = carry
		} else {
			p := prescalers[cnt&3]
			t.sub += cycles
			in = t.sub / p
			t.sub %= p
		}
		carry = t.tick(in)
		if carry != 0 && cnt&0x40 != 0 {
			m.request(irq.Timer(i))
		}
	}
}

func (m *Machine) displayStatus() uint16 {
	var s uint16
	if m.line >= VisibleLines && m.line != LinesPerFrame-1 {
		s |= 1
	}
	if m.lineCycle >= HBlankStart {
		s |= 2
	}
	if uint16(m.line) == m.io16(ioDISPSTAT)>>8 {
		s |= 4
	}
	return s
}

// nextEvent returns the cycles until the next HBlank or line start.
func (m *Machine) nextEvent() uint64 {
	if m.lineCycle < HBlankStart {
		return HBlankStart - m.lineCycle
	}
	return CyclesPerLine - m.lineCycle
}

func (m *Machine) advance(cycles uint64) {
	for cycles > 0 {
		step := m.nextEvent()
		if step > cycles {
			step = cycles
		}
		cycles -= step
		m.cycles += step
		m.advanceTimers(step)
		m.lineCycle += step

		switch m.lineCycle {
		case HBlankStart:
			m.hblank()
		case CyclesPerLine:
			m.lineCycle = 0
			m.nextLine()
		}
	}
}

func (m *Machine) hblank() {
	if m.io16(ioDISPSTAT)&(1<<4) != 0 {
		m.request(irq.HBlank)
	}
	if m.line < VisibleLines {
		m.dmaTrigger(dmaHBlank)
	}
}

func (m *Machine) nextLine() {
	m.line = (m.line + 1) % LinesPerFrame
	stat := m.io16(ioDISPSTAT)
	if m.line == VisibleLines {
		if stat&(1<<3) != 0 {
			m.request(irq.VBlank)
		}
		m.dmaTrigger(dmaVBlank)
	}
	if uint16(m.line) == stat>>8 && stat&(1<<5) != 0 {
		m.request(irq.VCounter)
	}
}

// RunFrames advances the clock by n frames, delivering interrupts on the
// way.
func (m *Machine) RunFrames(n int) {
	for i := 0; i < n*LinesPerFrame*2; i++ {
		m.advance(m.nextEvent())
		m.check()
	}
}

// Line returns the current display line.
func (m *Machine) Line() int { return m.line }
