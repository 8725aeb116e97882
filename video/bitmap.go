package video

import (
	"image/color"

	"tinygo.org/x/drivers"

	"advance/dma"
	"advance/mmio"
)

// Color is a 15-bit BGR colour as VRAM and palette RAM store it.
type Color uint16

// RGB returns the colour for 5-bit components.
func RGB(r, g, b uint8) Color {
	return Color(r&31) | Color(g&31)<<5 | Color(b&31)<<10
}

// FromRGBA drops the low three bits of each component and the alpha.
func FromRGBA(c color.RGBA) Color {
	return RGB(c.R>>3, c.G>>3, c.B>>3)
}

// RGBA expands c back to 8 bits per component.
func (c Color) RGBA() color.RGBA {
	ex := func(v uint16) uint8 { return uint8(v<<3 | v>>2) }
	return color.RGBA{
		R: ex(uint16(c) & 31),
		G: ex(uint16(c) >> 5 & 31),
		B: ex(uint16(c) >> 10 & 31),
		A: 0xFF,
	}
}

// Bitmap is the mode 3 frame buffer: one Color per pixel, row major, at
// the start of VRAM. It implements drivers.Displayer. Writes show on the
// next refresh, so Display has nothing to do.
type Bitmap struct {
	pixels mmio.Block[Color]
	fill   dma.Channel
}

var _ drivers.Displayer = (*Bitmap)(nil)

// VRAM is the start of video memory.
const VRAM = 0x06000000

// NewBitmap returns the mode 3 surface. Fills use DMA channel 3.
func NewBitmap() *Bitmap {
	return &Bitmap{
		pixels: mmio.NewBlock[Color](VRAM, Width*Height),
		fill:   3,
	}
}

// Show switches the display to mode 3 with background 2 on.
func (b *Bitmap) Show() {
	DISPCNT.Write(DisplayControl(0).WithMode(Mode3).WithLayers(BG2, true))
}

// Size implements drivers.Displayer.
func (b *Bitmap) Size() (x, y int16) {
	return Width, Height
}

// SetPixel implements drivers.Displayer. Pixels off the screen are
// ignored.
func (b *Bitmap) SetPixel(x, y int16, c color.RGBA) {
	b.Set(int(x), int(y), FromRGBA(c))
}

// Display implements drivers.Displayer.
func (b *Bitmap) Display() error {
	return nil
}

// Set stores c at (x, y) if it is on the screen.
func (b *Bitmap) Set(x, y int, c Color) {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return
	}
	b.pixels.Index(y*Width + x).Write(c)
}

// At returns the colour at (x, y), or 0 off the screen.
func (b *Bitmap) At(x, y int) Color {
	if x < 0 || y < 0 || x >= Width || y >= Height {
		return 0
	}
	return b.pixels.Index(y*Width + x).Read()
}

// Fill sets every pixel to c.
func (b *Bitmap) Fill(c Color) {
	b.fill.Fill16(b.pixels.Addr(), uint16(c), b.pixels.Len())
}

// FillRect sets the w by h rectangle at (x, y) to c, clipped to the
// screen.
func (b *Bitmap) FillRect(x, y, w, h int, c Color) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, Width), min(y+h, Height)
	if x0 >= x1 || y0 >= y1 {
		return
	}
	if x0 == 0 && x1 == Width {
		start := b.pixels.Index(y0 * Width).Addr()
		b.fill.Fill16(start, uint16(c), (y1-y0)*Width)
		return
	}
	for row := y0; row < y1; row++ {
		b.fill.Fill16(b.pixels.Index(row*Width+x0).Addr(), uint16(c), x1-x0)
	}
}
