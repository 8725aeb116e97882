//go:build !tinygo

package dma

import "advance/mmio"

// FillScratch is where the host keeps the repeated value of a fill, one
// word per channel. Go memory is invisible to the attached bus, so the
// words sit at the top of EWRAM, which the host machine model keeps out of
// its usable range.
const FillScratch = 0x0203FFF0

func fillSource(c Channel, v uint32) uintptr {
	addr := FillScratch + 4*uintptr(c)
	mmio.RW[uint32](addr).Write(v)
	return addr
}
