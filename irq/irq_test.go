package irq_test

import (
	"testing"

	"advance/critical"
	"advance/irq"
	"advance/mmio"
	"advance/sim"
)

func setup(t *testing.T, h irq.Handler) *sim.Machine {
	t.Helper()
	m := sim.Attach(t)
	prev := irq.SetHandler(h)
	t.Cleanup(func() { irq.SetHandler(prev) })
	irq.Install()
	return m
}

var sources = []irq.Flags{
	irq.VBlank, irq.HBlank, irq.VCounter,
	irq.Timer0, irq.Timer1, irq.Timer2, irq.Timer3,
	irq.Serial,
	irq.DMA0, irq.DMA1, irq.DMA2, irq.DMA3,
	irq.Keypad, irq.Gamepak,
}

func TestFourteenSources(t *testing.T) {
	if len(sources) != 14 {
		t.Fatalf("%d sources", len(sources))
	}
	var all irq.Flags
	for i, f := range sources {
		if f != 1<<i {
			t.Errorf("source %v is bit %#x, want bit %d", f, uint16(f), i)
		}
		all |= f
	}
	if all != irq.All {
		t.Errorf("All = %#x, want %#x", uint16(irq.All), uint16(all))
	}
	for n := 0; n < 4; n++ {
		if irq.Timer(n) != sources[3+n] || irq.DMA(n) != sources[8+n] {
			t.Errorf("Timer(%d)/DMA(%d) wrong", n, n)
		}
	}
}

func TestAcknowledgeEachSource(t *testing.T) {
	var got []irq.Flags
	m := setup(t, func(f irq.Flags) { got = append(got, f) })
	irq.Enable(irq.All)

	for _, f := range sources {
		got = got[:0]
		irq.BIOSFlags.Write(0)
		m.Raise(f)

		if len(got) != 1 || got[0] != f {
			t.Errorf("%v: handler got %v", f, got)
		}
		if pending := irq.IF.Read(); pending&f != 0 {
			t.Errorf("%v: still pending in IF after dispatch", f)
		}
		if irq.BIOSFlags.Read()&f == 0 {
			t.Errorf("%v: not recorded in the BIOS flags", f)
		}
	}
}

func TestAcknowledgeCombined(t *testing.T) {
	var got irq.Flags
	m := setup(t, func(f irq.Flags) { got |= f })
	irq.Enable(irq.All)

	// Raised together while masked, so one dispatch sees them all.
	combos := []irq.Flags{
		irq.All,
		irq.VBlank | irq.Timer3 | irq.Gamepak,
		irq.HBlank | irq.DMA0 | irq.DMA2 | irq.Serial,
	}
	for _, want := range combos {
		got = 0
		irq.BIOSFlags.Write(0)
		critical.Run(func() { m.Raise(want) })

		if got != want {
			t.Errorf("handler got %v, want %v", got, want)
		}
		if irq.IF.Read()&want != 0 {
			t.Errorf("%v: IF = %v after dispatch", want, irq.IF.Read())
		}
		if irq.BIOSFlags.Read() != want {
			t.Errorf("%v: BIOS flags = %v", want, irq.BIOSFlags.Read())
		}
	}
}

func TestDisabledSourceStaysPending(t *testing.T) {
	var got irq.Flags
	m := setup(t, func(f irq.Flags) { got |= f })
	irq.Enable(irq.VBlank)

	critical.Run(func() { m.Raise(irq.VBlank | irq.Keypad) })
	if got != irq.VBlank {
		t.Errorf("handler got %v", got)
	}
	if irq.IF.Read() != irq.Keypad {
		t.Errorf("IF = %v, want the disabled Keypad request left alone", irq.IF.Read())
	}
	if irq.BIOSFlags.Read()&irq.Keypad != 0 {
		t.Error("disabled source recorded in the BIOS flags")
	}
}

func TestAcknowledgeWithoutHandler(t *testing.T) {
	m := setup(t, nil)
	irq.Enable(irq.Timer2)
	irq.BIOSFlags.Write(0)
	before := irq.Dispatches()

	m.Raise(irq.Timer2)
	if irq.Dispatches() != before+1 {
		t.Fatalf("dispatches %d -> %d", before, irq.Dispatches())
	}
	if irq.IF.Read() != 0 || irq.BIOSFlags.Read() != irq.Timer2 {
		t.Errorf("IF = %v, BIOS flags = %v", irq.IF.Read(), irq.BIOSFlags.Read())
	}
}

func TestDispatchRestoresSavedIME(t *testing.T) {
	var imeInside []uint32
	setup(t, func(irq.Flags) { imeInside = append(imeInside, critical.IME.Read()) })
	irq.Enable(irq.VBlank)

	for _, ime := range []uint32{0, 1} {
		critical.IME.Write(0)
		irq.IF.Write(irq.All)
		irq.BIOSFlags.Write(0)
		critical.IME.Write(ime)

		// Entered directly, the way a trap taken with IME already off
		// would run it.
		if !mmio.Call(irq.Vector.Read()) {
			t.Fatal("vector does not hold the dispatcher")
		}
		if got := critical.IME.Read(); got != ime {
			t.Errorf("IME %d at entry, %d after dispatch", ime, got)
		}
	}
	for _, v := range imeInside {
		if v != 0 {
			t.Error("handler ran with IME on")
		}
	}
}

func TestEnableDisable(t *testing.T) {
	setup(t, nil)
	irq.Enable(irq.VBlank | irq.Timer0)
	irq.Enable(irq.Keypad)
	irq.Disable(irq.Timer0)
	if got := irq.Enabled(); got != irq.VBlank|irq.Keypad {
		t.Errorf("Enabled = %v", got)
	}
	if critical.IME.Read() != 1 {
		t.Error("Enable/Disable did not restore IME")
	}
}

func TestSetHandlerReturnsPrevious(t *testing.T) {
	setup(t, nil)
	a := func(irq.Flags) {}
	if prev := irq.SetHandler(a); prev != nil {
		t.Error("expected no previous handler")
	}
	if prev := irq.SetHandler(nil); prev == nil {
		t.Error("previous handler lost")
	}
}

func TestFlagsString(t *testing.T) {
	tests := []struct {
		f    irq.Flags
		want string
	}{
		{0, "0"},
		{irq.VBlank, "VBlank"},
		{irq.Timer1 | irq.DMA3 | irq.Gamepak, "Timer1|DMA3|Gamepak"},
		{irq.Keypad | 0x8000, "Keypad|0x8000"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("%#x.String() = %q, want %q", uint16(tt.f), got, tt.want)
		}
	}
}
