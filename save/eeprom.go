package save

import (
	"fmt"

	"advance/mmio"
	"advance/timer"
)

// The EEPROM is addressed at the top of the cartridge space, which works
// for every ROM size.
const eepromBase = 0x0DFFFF00

// eepromStatus reads 1 once a write has finished.
const eepromStatus = mmio.RO[uint16](eepromBase)

const blockSize = 8

// Stream lengths in bits.
const (
	maxAddrBits  = 14
	readReplyLen = 4 + 64
	maxWriteLen  = 2 + maxAddrBits + 64 + 1
)

func (m *Media) addrBits() int {
	if m.kind == EEPROM8K {
		return 14
	}
	return 6
}

func (m *Media) readBlock(n int) [blockSize]byte {
	var req [2 + maxAddrBits + 1]uint16
	b := NewBitBuffer(req[:])
	b.WriteNum(0b11, 2)
	b.WriteNum(uint64(n), m.addrBits())
	b.WriteBit(false)
	send(b.Bits())

	var reply [readReplyLen]uint16
	receive(reply[:])
	r := NewBitBuffer(reply[:])
	r.Skip(4)
	v := r.ReadNum(64)

	var out [blockSize]byte
	for i := range out {
		out[i] = byte(v >> (56 - 8*i))
	}
	return out
}

func (m *Media) writeBlock(n int, data [blockSize]byte) error {
	var req [maxWriteLen]uint16
	b := NewBitBuffer(req[:])
	b.WriteNum(0b10, 2)
	b.WriteNum(uint64(n), m.addrBits())
	for _, x := range data {
		b.WriteNum(uint64(x), 8)
	}
	b.WriteBit(false)
	send(b.Bits())

	to := timer.StartTimeout(TimeoutTimer, WriteTimeout)
	defer to.Stop()
	if err := to.Wait(func() bool { return eepromStatus.Read()&1 != 0 }); err != nil {
		return fmt.Errorf("save: EEPROM block %d: %w", n, err)
	}
	return nil
}

func (m *Media) eepromRead(p []byte, off int64) int {
	done := 0
	for done < len(p) {
		pos := int(off) + done
		blk := m.readBlock(pos / blockSize)
		done += copy(p[done:], blk[pos%blockSize:])
	}
	return done
}

func (m *Media) eepromWrite(p []byte, off int64) (int, error) {
	done := 0
	for done < len(p) {
		pos := int(off) + done
		n, in := pos/blockSize, pos%blockSize
		var blk [blockSize]byte
		if in != 0 || len(p)-done < blockSize {
			blk = m.readBlock(n)
		}
		c := copy(blk[in:], p[done:])
		if err := m.writeBlock(n, blk); err != nil {
			return done, err
		}
		done += c
	}
	return done, nil
}
