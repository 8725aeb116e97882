// Package video holds the display control registers and a mode 3 bitmap
// surface.
package video

import (
	"strconv"

	"advance/bios"
	"advance/bitfield"
	"advance/mmio"
)

// Mode is the background mode in DISPCNT. Modes 6 and 7 are not defined;
// they decode as themselves and report !Valid.
type Mode uint8

const (
	Mode0 Mode = iota // four tiled backgrounds
	Mode1             // two tiled, one affine
	Mode2             // two affine
	Mode3             // 240x160 direct colour bitmap
	Mode4             // 240x160 paletted bitmap, two frames
	Mode5             // 160x128 direct colour bitmap, two frames
)

// Valid reports whether m is a defined mode.
func (m Mode) Valid() bool { return m <= Mode5 }

func (m Mode) String() string {
	if !m.Valid() {
		return "Reserved(" + strconv.Itoa(int(m)) + ")"
	}
	return "Mode" + strconv.Itoa(int(m))
}

// Layer is a DISPCNT display enable bit.
type Layer uint16

const (
	BG0 Layer = 1 << (8 + iota)
	BG1
	BG2
	BG3
	OBJ
	Win0
	Win1
	ObjWin
)

// DisplayControl is the DISPCNT register.
type DisplayControl uint16

func (c DisplayControl) Mode() Mode { return Mode(bitfield.Get(c, 0, 3)) }

// Frame is the displayed frame of modes 4 and 5.
func (c DisplayControl) Frame() int { return int(bitfield.Get(c, 4, 1)) }

// LinearObjects reports one-dimensional sprite tile mapping.
func (c DisplayControl) LinearObjects() bool { return bitfield.Bit(c, 6) }

// ForcedBlank reports whether the screen is held white and VRAM is free to
// access at any time.
func (c DisplayControl) ForcedBlank() bool { return bitfield.Bit(c, 7) }

// Shows reports whether every layer in l is enabled.
func (c DisplayControl) Shows(l Layer) bool { return uint16(c)&uint16(l) == uint16(l) }

func (c DisplayControl) WithMode(m Mode) DisplayControl {
	return bitfield.Set(c, 0, 3, DisplayControl(m))
}

func (c DisplayControl) WithFrame(n int) DisplayControl {
	return bitfield.Set(c, 4, 1, DisplayControl(n))
}

func (c DisplayControl) WithLinearObjects(on bool) DisplayControl { return bitfield.SetBit(c, 6, on) }

func (c DisplayControl) WithForcedBlank(on bool) DisplayControl { return bitfield.SetBit(c, 7, on) }

// WithLayers enables or disables every layer in l.
func (c DisplayControl) WithLayers(l Layer, on bool) DisplayControl {
	if on {
		return c | DisplayControl(l)
	}
	return c &^ DisplayControl(l)
}

// DisplayStatus is the DISPSTAT register. The three status bits are read
// only.
type DisplayStatus uint16

func (s DisplayStatus) InVBlank() bool      { return bitfield.Bit(s, 0) }
func (s DisplayStatus) InHBlank() bool      { return bitfield.Bit(s, 1) }
func (s DisplayStatus) VCountMatch() bool   { return bitfield.Bit(s, 2) }
func (s DisplayStatus) VBlankIRQ() bool     { return bitfield.Bit(s, 3) }
func (s DisplayStatus) HBlankIRQ() bool     { return bitfield.Bit(s, 4) }
func (s DisplayStatus) VCountIRQ() bool     { return bitfield.Bit(s, 5) }
func (s DisplayStatus) VCountTarget() uint8 { return uint8(bitfield.Get(s, 8, 8)) }

func (s DisplayStatus) WithVBlankIRQ(on bool) DisplayStatus { return bitfield.SetBit(s, 3, on) }
func (s DisplayStatus) WithHBlankIRQ(on bool) DisplayStatus { return bitfield.SetBit(s, 4, on) }
func (s DisplayStatus) WithVCountIRQ(on bool) DisplayStatus { return bitfield.SetBit(s, 5, on) }

func (s DisplayStatus) WithVCountTarget(line uint8) DisplayStatus {
	return bitfield.Set(s, 8, 8, DisplayStatus(line))
}

const (
	DISPCNT  = mmio.RW[DisplayControl](0x04000000)
	DISPSTAT = mmio.RW[DisplayStatus](0x04000004)
	VCOUNT   = mmio.RO[uint16](0x04000006)
)

// Screen size in pixels.
const (
	Width  = 240
	Height = 160
)

// WaitVBlank halts until the next VBlank interrupt. The VBlank interrupt has
// to be on in DISPSTAT and in IE, with the dispatcher installed.
func WaitVBlank() {
	bios.VBlankIntrWait()
}

// EnableVBlankIRQ turns on the display side of the VBlank interrupt.
func EnableVBlankIRQ() {
	DISPSTAT.Write(DISPSTAT.Read().WithVBlankIRQ(true))
}
