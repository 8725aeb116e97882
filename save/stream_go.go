//go:build !tinygo

package save

import (
	"advance/dma"
	"advance/mmio"
)

// StreamScratch is where the host stages a bit stream for DMA, since the
// attached bus cannot see Go memory. It is in the EWRAM the host machine
// model holds back, below dma.FillScratch.
const StreamScratch = 0x0203FF00

func send(bits []uint16) {
	for i, v := range bits {
		mmio.RW[uint16](StreamScratch + 2*uintptr(i)).Write(v)
	}
	dma.Channel(3).Copy16(eepromBase, StreamScratch, len(bits))
}

func receive(bits []uint16) {
	dma.Channel(3).Copy16(StreamScratch, eepromBase, len(bits))
	for i := range bits {
		bits[i] = mmio.RW[uint16](StreamScratch + 2*uintptr(i)).Read()
	}
}
