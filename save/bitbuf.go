package save

// BitBuffer builds and parses a serial bit stream one halfword per bit, the
// form the EEPROM takes over DMA: bit 0 of each halfword is the line level.
// Numbers go most significant bit first.
type BitBuffer struct {
	buf []uint16
	pos int
}

// NewBitBuffer returns a buffer over buf, positioned at the start.
func NewBitBuffer(buf []uint16) *BitBuffer {
	return &BitBuffer{buf: buf}
}

// WriteBit appends one bit. It panics if the buffer is full.
func (b *BitBuffer) WriteBit(bit bool) {
	var v uint16
	if bit {
		v = 1
	}
	b.buf[b.pos] = v
	b.pos++
}

// WriteNum appends the low n bits of v.
func (b *BitBuffer) WriteNum(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		b.WriteBit(v>>i&1 != 0)
	}
}

// ReadBit returns the next bit. It panics past the end of the buffer.
func (b *BitBuffer) ReadBit() bool {
	bit := b.buf[b.pos]&1 != 0
	b.pos++
	return bit
}

// ReadNum returns the next n bits as a number.
func (b *BitBuffer) ReadNum(n int) uint64 {
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if b.ReadBit() {
			v |= 1
		}
	}
	return v
}

// Skip moves past n bits.
func (b *BitBuffer) Skip(n int) {
	b.pos += n
}

// Len returns the position: bits written or read so far.
func (b *BitBuffer) Len() int { return b.pos }

// Bits returns the halfwords written so far.
func (b *BitBuffer) Bits() []uint16 { return b.buf[:b.pos] }

// Rewind moves back to the start for reading.
func (b *BitBuffer) Rewind() { b.pos = 0 }
