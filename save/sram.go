package save

import "advance/mmio"

// The SRAM sits on an 8-bit bus; only byte accesses work.
var sramBytes = mmio.NewBlock[uint8](0x0E000000, 0x8000)

func sramRead(p []byte, off int64) int {
	for i := range p {
		p[i] = sramBytes.Index(int(off) + i).Read()
	}
	return len(p)
}

func sramWrite(p []byte, off int64) int {
	for i, b := range p {
		sramBytes.Index(int(off) + i).Write(b)
	}
	return len(p)
}
