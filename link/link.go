// Package link drives the link port as a UART, which is how a cable to a
// host serial adapter sees it.
package link

import (
	"errors"

	"advance/bitfield"
	"advance/mmio"
)

var (
	ErrEmpty    = errors.New("link: nothing received")
	ErrSendFull = errors.New("link: send buffer stays full")
)

// Baud is the UART bit rate field.
type Baud uint16

const (
	Baud9600 Baud = iota
	Baud38400
	Baud57600
	Baud115200
)

// Rate returns the bit rate in bits per second.
func (b Baud) Rate() int {
	return [...]int{9600, 38400, 57600, 115200}[b&3]
}

// Mode is the SIOCNT transfer mode. Only UART is driven by this package.
type Mode uint16

const (
	Normal8 Mode = iota
	Multiplayer
	Normal32
	UART
)

// Control is SIOCNT in UART mode.
type Control uint16

func (c Control) Baud() Baud                  { return Baud(bitfield.Get(c, 0, 2)) }
func (c Control) WithBaud(b Baud) Control     { return bitfield.Set(c, 0, 2, Control(b)) }
func (c Control) CTS() bool                   { return bitfield.Bit(c, 2) }
func (c Control) WithCTS(on bool) Control     { return bitfield.SetBit(c, 2, on) }
func (c Control) OddParity() bool             { return bitfield.Bit(c, 3) }
func (c Control) SendFull() bool              { return bitfield.Bit(c, 4) }
func (c Control) ReceiveEmpty() bool          { return bitfield.Bit(c, 5) }
func (c Control) Error() bool                 { return bitfield.Bit(c, 6) }
func (c Control) Data8() bool                 { return bitfield.Bit(c, 7) }
func (c Control) WithData8(on bool) Control   { return bitfield.SetBit(c, 7, on) }
func (c Control) FIFO() bool                  { return bitfield.Bit(c, 8) }
func (c Control) WithFIFO(on bool) Control    { return bitfield.SetBit(c, 8, on) }
func (c Control) Parity() bool                { return bitfield.Bit(c, 9) }
func (c Control) Send() bool                  { return bitfield.Bit(c, 10) }
func (c Control) WithSend(on bool) Control    { return bitfield.SetBit(c, 10, on) }
func (c Control) Receive() bool               { return bitfield.Bit(c, 11) }
func (c Control) WithReceive(on bool) Control { return bitfield.SetBit(c, 11, on) }
func (c Control) Mode() Mode                  { return Mode(bitfield.Get(c, 12, 2)) }
func (c Control) WithMode(m Mode) Control     { return bitfield.Set(c, 12, 2, Control(m)) }
func (c Control) IRQ() bool                   { return bitfield.Bit(c, 14) }
func (c Control) WithIRQ(on bool) Control     { return bitfield.SetBit(c, 14, on) }

const (
	SIOCNT   = mmio.RW[Control](0x04000128)
	SIODATA8 = mmio.RW[uint8](0x0400012A)

	// RCNT bit 15 clear selects one of the SIO modes over general purpose.
	RCNT = mmio.RW[uint16](0x04000134)
)

// sendSpin bounds the wait for room in the send buffer, which stays full
// while CTS is on and the host does not assert it.
const sendSpin = 4096

// Port is the link port in UART mode.
type Port struct{}

// ConfigureUART switches the link port to an 8N1 UART at baud with send and
// receive enabled and returns it.
func ConfigureUART(baud Baud) Port {
	RCNT.Write(0)
	SIOCNT.Write(Control(0).WithMode(UART))
	SIOCNT.Write(Control(0).
		WithMode(UART).
		WithBaud(baud).
		WithData8(true).
		WithFIFO(true).
		WithSend(true).
		WithReceive(true))
	return Port{}
}

// Ready reports whether the port is set up as a sending UART.
func (Port) Ready() bool {
	c := SIOCNT.Read()
	return RCNT.Read()&0x8000 == 0 && c.Mode() == UART && c.Send()
}

// WriteByte sends b, waiting a bounded time for room.
func (Port) WriteByte(b byte) error {
	for i := 0; SIOCNT.Read().SendFull(); i++ {
		if i == sendSpin {
			return ErrSendFull
		}
	}
	SIODATA8.Write(b)
	return nil
}

// Write implements io.Writer.
func (p Port) Write(data []byte) (int, error) {
	for i, b := range data {
		if err := p.WriteByte(b); err != nil {
			return i, err
		}
	}
	return len(data), nil
}

// ReadByte returns the next received byte, or ErrEmpty without waiting.
func (Port) ReadByte() (byte, error) {
	if SIOCNT.Read().ReceiveEmpty() {
		return 0, ErrEmpty
	}
	return SIODATA8.Read(), nil
}

// Read implements io.Reader over what has already arrived. It returns
// ErrEmpty rather than 0, nil when nothing has.
func (p Port) Read(data []byte) (int, error) {
	n := 0
	for n < len(data) {
		b, err := p.ReadByte()
		if err != nil {
			break
		}
		data[n] = b
		n++
	}
	if n == 0 && len(data) > 0 {
		return 0, ErrEmpty
	}
	return n, nil
}
