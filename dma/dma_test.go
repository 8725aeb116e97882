package dma_test

import (
	"encoding/binary"
	"testing"

	"advance/dma"
	"advance/irq"
	"advance/sim"
)

const ewram = 0x02000000

func halfwords(m *sim.Machine, addr uint32, n int) []uint16 {
	b := m.Bytes(addr, 2*n)
	out := make([]uint16, n)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return out
}

func TestFill16Bounds(t *testing.T) {
	const guard = 8
	tests := []struct {
		name string
		dst  uint32
		w, h int
	}{
		{"aligned even", ewram + 0x100, 4, 2},
		{"aligned odd", ewram + 0x100, 7, 5},
		{"unaligned odd", ewram + 0x102, 7, 5},
		{"unaligned even", ewram + 0x102, 3, 2},
		{"single", ewram + 0x102, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sim.Attach(t)
			m.Fill(ewram, 0x400, 0x5A)

			n := tt.w * tt.h
			const color = 0x7C1F
			dma.Channel(3).Fill16(uintptr(tt.dst), color, n)

			got := halfwords(m, tt.dst-2*guard, n+2*guard)
			for i, v := range got {
				want := uint16(0x5A5A)
				if i >= guard && i < guard+n {
					want = color
				}
				if v != want {
					t.Errorf("halfword %d of %d (offset %d) = %#04x, want %#04x", i-guard, n, i, v, want)
				}
			}
		})
	}
}

func TestFill32(t *testing.T) {
	m := sim.Attach(t)
	m.Fill(ewram, 0x100, 0)
	dma.Channel(0).Fill32(ewram+4, 0xDEADBEEF, 5)

	b := m.Bytes(ewram, 32)
	for i := 0; i < 8; i++ {
		v := binary.LittleEndian.Uint32(b[4*i:])
		want := uint32(0)
		if i >= 1 && i <= 5 {
			want = 0xDEADBEEF
		}
		if v != want {
			t.Errorf("word %d = %#08x, want %#08x", i, v, want)
		}
	}
	if m.DMATransfers[0] != 1 {
		t.Errorf("%d transfers on channel 0", m.DMATransfers[0])
	}
}

func TestCopy(t *testing.T) {
	m := sim.Attach(t)
	src := make([]byte, 64)
	for i := range src {
		src[i] = byte(i * 3)
	}
	m.Write(ewram, src)

	dma.Channel(3).Copy16(ewram+0x200, ewram, 13)
	if got := m.Bytes(ewram+0x200, 28); string(got[:26]) != string(src[:26]) || got[26] != 0 {
		t.Errorf("Copy16 wrote % x", got)
	}
	dma.Channel(1).Copy32(ewram+0x300, ewram, 16)
	if got := m.Bytes(ewram+0x300, 64); string(got) != string(src) {
		t.Errorf("Copy32 wrote % x", got)
	}
}

func TestZeroCountIsNoop(t *testing.T) {
	m := sim.Attach(t)
	dma.Channel(3).Fill16(ewram, 1, 0)
	dma.Channel(3).Fill32(ewram, 1, -1)
	dma.Channel(3).Copy32(ewram, ewram+64, 0)
	if m.DMATransfers[3] != 0 {
		t.Errorf("%d transfers started", m.DMATransfers[3])
	}
}

func TestLongTransferSplits(t *testing.T) {
	m := sim.Attach(t)
	ch := dma.Channel(0)
	n := ch.MaxUnits() + 3
	ch.Fill32(ewram, 0x12345678, n)

	if m.DMATransfers[0] != 2 {
		t.Errorf("%d transfers, want the count split in two", m.DMATransfers[0])
	}
	end := ewram + 4*uint32(n)
	if got := m.Peek32(end - 4); got != 0x12345678 {
		t.Errorf("last word = %#08x", got)
	}
	if got := m.Peek32(end); got != 0 {
		t.Errorf("word past the end = %#08x", got)
	}
}

func TestRepeatStaysBusy(t *testing.T) {
	m := sim.Attach(t)
	ch := dma.Channel(2)
	ctl := dma.Control(0).
		WithTiming(dma.AtVBlank).
		WithRepeat(true).
		WithSource(dma.Fixed).
		WithDest(dma.Fixed).
		WithIRQ(true)
	m.Poke32(ewram, 0xAA55)
	ch.Start(ewram+0x40, ewram, 1, ctl)

	m.RunFrames(3)
	if !ch.Busy() {
		t.Fatal("repeating channel went idle")
	}
	if n := m.DMATransfers[2]; n < 2 {
		t.Errorf("%d VBlank transfers in 3 frames", n)
	}
	if irq.IF.Read()&irq.DMA2 == 0 {
		t.Error("no DMA2 request")
	}
	ch.Stop()
	if ch.Busy() {
		t.Error("busy after Stop")
	}
	if got := m.Peek16(ewram + 0x40); got != 0xAA55 {
		t.Errorf("destination = %#04x", got)
	}
}

func TestFillFromInterruptKeepsValue(t *testing.T) {
	m := sim.Attach(t)
	m.Fill(ewram, 0x1000, 0)

	ran := 0
	prev := irq.SetHandler(func(irq.Flags) {
		ran++
		dma.Channel(3).Fill32(ewram+0x800, 0xBBBBBBBB, 1)
	})
	t.Cleanup(func() { irq.SetHandler(prev) })
	irq.Install()
	irq.Enable(irq.Timer0)

	// Interrupt as soon as the foreground has stored its fill word.
	fired := false
	m.OnAccess(func(addr uint32, write bool) {
		if write && addr == dma.FillScratch+12 && !fired {
			fired = true
			m.Raise(irq.Timer0)
		}
	})
	dma.Channel(3).Fill32(ewram+0x100, 0xAAAAAAAA, 4)
	m.OnAccess(nil)

	if ran != 1 {
		t.Fatalf("handler ran %d times", ran)
	}
	for i := uint32(0); i < 4; i++ {
		if got := m.Peek32(ewram + 0x100 + 4*i); got != 0xAAAAAAAA {
			t.Errorf("word %d = %#08x, want 0xaaaaaaaa", i, got)
		}
	}
	if got := m.Peek32(ewram + 0x800); got != 0xBBBBBBBB {
		t.Errorf("handler fill = %#08x", got)
	}
}

func TestControlFields(t *testing.T) {
	c := dma.Control(0).
		WithDest(dma.IncrementReload).
		WithSource(dma.Decrement).
		WithWord(true).
		WithTiming(dma.AtHBlank).
		WithEnabled(true)
	if c != 0x8000|0x2000|0x0400|0x0080|0x0060 {
		t.Errorf("control = %#04x", uint16(c))
	}
	if c.Dest() != dma.IncrementReload || c.Source() != dma.Decrement || c.Timing() != dma.AtHBlank {
		t.Errorf("fields %v %v %v", c.Dest(), c.Source(), c.Timing())
	}
	if !c.Valid() || c.WithSource(dma.IncrementReload).Valid() {
		t.Error("source reload not rejected")
	}
}
