package link_test

import (
	"errors"
	"fmt"
	"testing"

	"advance/irq"
	"advance/link"
	"advance/sim"
)

func TestControlFields(t *testing.T) {
	c := link.Control(0).WithMode(link.UART).WithBaud(link.Baud115200).WithSend(true).WithIRQ(true)
	if c != 0x7403 {
		t.Errorf("control = %#04x, want 0x7403", uint16(c))
	}
	if c.Mode() != link.UART || c.Baud().Rate() != 115200 || c.Receive() {
		t.Errorf("decoded mode %d baud %d receive %v", c.Mode(), c.Baud().Rate(), c.Receive())
	}
}

func TestControlFieldsDisjoint(t *testing.T) {
	testCases := []struct {
		name string
		mask link.Control
		set  func(link.Control, bool) link.Control
		get  func(link.Control) bool
	}{
		{"CTS", 1 << 2, link.Control.WithCTS, link.Control.CTS},
		{"Data8", 1 << 7, link.Control.WithData8, link.Control.Data8},
		{"FIFO", 1 << 8, link.Control.WithFIFO, link.Control.FIFO},
		{"Send", 1 << 10, link.Control.WithSend, link.Control.Send},
		{"Receive", 1 << 11, link.Control.WithReceive, link.Control.Receive},
		{"IRQ", 1 << 14, link.Control.WithIRQ, link.Control.IRQ},
	}

	for _, tc := range testCases {
		for _, base := range []link.Control{0, 0xFFFF} {
			for _, on := range []bool{false, true} {
				got := tc.set(base, on)
				if got&^tc.mask != base&^tc.mask {
					t.Errorf("%s(%v) on %#04x = %#04x, other bits changed", tc.name, on, uint16(base), uint16(got))
				}
				if tc.get(got) != on {
					t.Errorf("%s(%v) on %#04x read back %v", tc.name, on, uint16(base), !on)
				}
			}
		}
	}

	for _, base := range []link.Control{0, 0xFFFF} {
		for b := link.Baud9600; b <= link.Baud115200; b++ {
			got := base.WithBaud(b)
			if got.Baud() != b || got&^0x0003 != base&^0x0003 {
				t.Errorf("WithBaud(%d) on %#04x = %#04x", b, uint16(base), uint16(got))
			}
		}
		for m := link.Normal8; m <= link.UART; m++ {
			got := base.WithMode(m)
			if got.Mode() != m || got&^0x3000 != base&^0x3000 {
				t.Errorf("WithMode(%d) on %#04x = %#04x", m, uint16(base), uint16(got))
			}
		}
	}
}

func TestWriteNeedsUART(t *testing.T) {
	m := sim.Attach(t)
	var p link.Port
	if p.Ready() {
		t.Error("port ready before configuration")
	}
	p.WriteByte('x')
	if len(m.Serial()) != 0 {
		t.Errorf("sent %q in normal mode", m.Serial())
	}
}

func TestWrite(t *testing.T) {
	m := sim.Attach(t)
	p := link.ConfigureUART(link.Baud115200)
	if !p.Ready() {
		t.Fatal("port not ready")
	}
	n, err := fmt.Fprintf(p, "frame %d", 7)
	if err != nil || n != 7 {
		t.Fatalf("Fprintf = %d, %v", n, err)
	}
	if got := string(m.Serial()); got != "frame 7" {
		t.Errorf("serial = %q", got)
	}
}

func TestRead(t *testing.T) {
	m := sim.Attach(t)
	p := link.ConfigureUART(link.Baud9600)

	if _, err := p.ReadByte(); !errors.Is(err, link.ErrEmpty) {
		t.Errorf("ReadByte on empty = %v", err)
	}
	m.SendSerial('a', 'b', 'c')
	buf := make([]byte, 8)
	n, err := p.Read(buf)
	if err != nil || string(buf[:n]) != "abc" {
		t.Errorf("Read = %q, %v", buf[:n], err)
	}
	if _, err := p.Read(buf); !errors.Is(err, link.ErrEmpty) {
		t.Errorf("second Read = %v", err)
	}
}

func TestSendInterrupt(t *testing.T) {
	m := sim.Attach(t)
	var got irq.Flags
	prev := irq.SetHandler(func(f irq.Flags) { got |= f })
	t.Cleanup(func() { irq.SetHandler(prev) })
	irq.Install()
	irq.Enable(irq.Serial)

	p := link.ConfigureUART(link.Baud115200)
	link.SIOCNT.Write(link.SIOCNT.Read().WithIRQ(true))
	p.WriteByte('!')
	if got&irq.Serial == 0 {
		t.Errorf("handler saw %v", got)
	}
	if string(m.Serial()) != "!" {
		t.Errorf("serial = %q", m.Serial())
	}
}
