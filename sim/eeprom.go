//go:build !tinygo

package sim

// eeprom models the serial EEPROM on the cartridge bus. Only bit 0 of each
// halfword transfer matters.
//
// Read:  1 1 addr[w] 0, then 68 bits come back: 4 ignored and 64 data, MSB
// first.
// Write: 1 0 addr[w] data[64] 0. Reads then return 0 while the write is in
// progress and 1 once it is done.
type eeprom struct {
	data      []byte
	addrBits  int
	in        []uint8
	out       []uint8
	busyReads int
}

// eepromWriteReads is how many status reads a write stays busy for.
const eepromWriteReads = 8

func newEEPROM(size int) *eeprom {
	e := &eeprom{data: make([]byte, size), addrBits: 6}
	if size > 512 {
		e.addrBits = 14
	}
	for i := range e.data {
		e.data[i] = 0xFF
	}
	return e
}

func (e *eeprom) address(bits []uint8) int {
	a := 0
	for _, b := range bits {
		a = a<<1 | int(b)
	}
	// 8KiB parts only decode the low 10 bits of the 14 sent.
	a &= len(e.data)/8 - 1
	return a * 8
}

func (e *eeprom) write(v uint16) {
	e.in = append(e.in, uint8(v&1))
	if len(e.in) < 2 {
		return
	}
	w := e.addrBits
	switch {
	case e.in[0] == 1 && e.in[1] == 1 && len(e.in) == 2+w+1:
		a := e.address(e.in[2 : 2+w])
		e.out = append(e.out[:0], 0, 0, 0, 0)
		for _, b := range e.data[a : a+8] {
			for i := 7; i >= 0; i-- {
				e.out = append(e.out, b>>i&1)
			}
		}
		e.in = e.in[:0]
	case e.in[0] == 1 && e.in[1] == 0 && len(e.in) == 2+w+64+1:
		a := e.address(e.in[2 : 2+w])
		bits := e.in[2+w : 2+w+64]
		for i := 0; i < 8; i++ {
			var b byte
			for j := 0; j < 8; j++ {
				b = b<<1 | bits[i*8+j]
			}
			e.data[a+i] = b
		}
		e.busyReads = eepromWriteReads
		e.in = e.in[:0]
	case e.in[0] == 0:
		e.in = e.in[:0]
	}
}

func (e *eeprom) read() uint16 {
	if len(e.out) > 0 {
		b := e.out[0]
		e.out = e.out[1:]
		return uint16(b)
	}
	if e.busyReads > 0 {
		e.busyReads--
		return 0
	}
	return 1
}

// EEPROM returns the EEPROM contents, or nil if there is none.
func (m *Machine) EEPROM() []byte {
	if m.eeprom == nil {
		return nil
	}
	return m.eeprom.data
}

// SRAM returns the SRAM contents, or nil if there is none.
func (m *Machine) SRAM() []byte {
	return m.sram
}
