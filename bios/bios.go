// Package bios wraps the firmware services in the cartridge-side BIOS.
//
// Every wrapper is one software interrupt. Arguments go in r0-r3 and results
// come back in r0-r3; the BIOS may clobber r0-r3, r12 and lr, and every
// wrapper tells the compiler so. Regs is that register contract spelled out.
package bios

import (
	"strconv"

	"advance/bitfield"
	"advance/irq"
)

// Function is a BIOS service number, the immediate of the swi instruction.
type Function uint8

const (
	FuncSoftReset        Function = 0x00
	FuncRegisterRAMReset Function = 0x01
	FuncHalt             Function = 0x02
	FuncStop             Function = 0x03
	FuncIntrWait         Function = 0x04
	FuncVBlankIntrWait   Function = 0x05
	FuncDiv              Function = 0x06
	FuncSqrt             Function = 0x08
	FuncArcTan2          Function = 0x0A
	FuncCpuSet           Function = 0x0B
	FuncCpuFastSet       Function = 0x0C
	FuncLZ77UnCompWRAM   Function = 0x11
	FuncLZ77UnCompVRAM   Function = 0x12
	FuncHuffUnComp       Function = 0x13
	FuncRLUnCompWRAM     Function = 0x14
	FuncRLUnCompVRAM     Function = 0x15
)

var funcNames = map[Function]string{
	FuncSoftReset:        "SoftReset",
	FuncRegisterRAMReset: "RegisterRAMReset",
	FuncHalt:             "Halt",
	FuncStop:             "Stop",
	FuncIntrWait:         "IntrWait",
	FuncVBlankIntrWait:   "VBlankIntrWait",
	FuncDiv:              "Div",
	FuncSqrt:             "Sqrt",
	FuncArcTan2:          "ArcTan2",
	FuncCpuSet:           "CpuSet",
	FuncCpuFastSet:       "CpuFastSet",
	FuncLZ77UnCompWRAM:   "LZ77UnCompWRAM",
	FuncLZ77UnCompVRAM:   "LZ77UnCompVRAM",
	FuncHuffUnComp:       "HuffUnComp",
	FuncRLUnCompWRAM:     "RLUnCompWRAM",
	FuncRLUnCompVRAM:     "RLUnCompVRAM",
}

func (f Function) String() string {
	if name, ok := funcNames[f]; ok {
		return name
	}
	return "Function(" + strconv.Itoa(int(f)) + ")"
}

// Regs holds r0-r3 across a call: arguments on the way in, results on the
// way out.
type Regs struct {
	R0, R1, R2, R3 uint32
}

// ResetFlags selects what RegisterRAMReset clears.
type ResetFlags uint8

const (
	ResetEWRAM ResetFlags = 1 << iota
	ResetIWRAM            // except the last 0x200 bytes
	ResetPalette
	ResetVRAM
	ResetOAM
	ResetSIO
	ResetSound
	ResetRegisters
)

// CopyControl is the r2 argument of CpuSet and CpuFastSet.
type CopyControl uint32

// Count is the number of units (halfwords or words) to transfer.
func (c CopyControl) Count() uint32 { return uint32(bitfield.Get(c, 0, 21)) }

// Fill reports whether the source is a single value repeated.
func (c CopyControl) Fill() bool { return bitfield.Bit(c, 24) }

// Words reports whether CpuSet moves 32-bit units. CpuFastSet always does.
func (c CopyControl) Words() bool { return bitfield.Bit(c, 26) }

func (c CopyControl) WithCount(n uint32) CopyControl {
	return bitfield.Set(c, 0, 21, CopyControl(n))
}

func (c CopyControl) WithFill(on bool) CopyControl { return bitfield.SetBit(c, 24, on) }

func (c CopyControl) WithWords(on bool) CopyControl { return bitfield.SetBit(c, 26, on) }

// SoftReset restarts the program from the ROM entry point. It does not
// return.
func SoftReset() {
	swi(FuncSoftReset, &Regs{})
}

// RegisterRAMReset clears the memory areas and registers selected by f.
func RegisterRAMReset(f ResetFlags) {
	swi(FuncRegisterRAMReset, &Regs{R0: uint32(f)})
}

// Halt stops the CPU until an enabled interrupt is requested (IE&IF != 0).
// IME does not matter to the wake-up condition.
func Halt() {
	swi(FuncHalt, &Regs{})
}

// Stop enters very low power mode. Only keypad, cartridge and serial
// interrupts wake it.
func Stop() {
	swi(FuncStop, &Regs{})
}

// IntrWait halts until one of flags is set in BIOSFlags, then clears the
// seen bits there. With discard set, flags already pending in BIOSFlags are
// cleared first so only a new interrupt ends the wait. The BIOS sets IME.
// Waiting with none of flags enabled in IE never returns.
func IntrWait(discard bool, flags irq.Flags) {
	var r0 uint32
	if discard {
		r0 = 1
	}
	swi(FuncIntrWait, &Regs{R0: r0, R1: uint32(flags)})
}

// VBlankIntrWait is IntrWait(true, irq.VBlank). The VBlank interrupt must
// be enabled in DISPSTAT and IE.
func VBlankIntrWait() {
	swi(FuncVBlankIntrWait, &Regs{})
}

// Div returns num/den rounded toward zero and the remainder with the sign of
// num. Division by zero hangs the BIOS.
func Div(num, den int32) (quo, rem int32) {
	r := Regs{R0: uint32(num), R1: uint32(den)}
	swi(FuncDiv, &r)
	return int32(r.R0), int32(r.R1)
}

// Sqrt returns the integer square root of x.
func Sqrt(x uint32) uint16 {
	r := Regs{R0: x}
	swi(FuncSqrt, &r)
	return uint16(r.R0)
}

// ArcTan2 returns the angle of (x, y) with x and y in 1.14 fixed point. The
// result spans 0x0000-0xFFFF for a full turn.
func ArcTan2(x, y int16) uint16 {
	r := Regs{R0: uint32(int32(x)), R1: uint32(int32(y))}
	swi(FuncArcTan2, &r)
	return uint16(r.R0)
}

// CpuSet copies or fills halfwords or words. Addresses must be aligned to
// the unit.
func CpuSet(src, dst uintptr, c CopyControl) {
	swi(FuncCpuSet, &Regs{R0: uint32(src), R1: uint32(dst), R2: uint32(c)})
}

// CpuFastSet copies or fills words in blocks of eight. Count is rounded up
// to a multiple of 8 by the BIOS; addresses must be word aligned.
func CpuFastSet(src, dst uintptr, c CopyControl) {
	swi(FuncCpuFastSet, &Regs{R0: uint32(src), R1: uint32(dst), R2: uint32(c)})
}

// LZ77UnCompWRAM decompresses LZ77 data at src with byte writes.
func LZ77UnCompWRAM(src, dst uintptr) {
	swi(FuncLZ77UnCompWRAM, &Regs{R0: uint32(src), R1: uint32(dst)})
}

// LZ77UnCompVRAM decompresses LZ77 data at src with halfword writes, as VRAM
// requires.
func LZ77UnCompVRAM(src, dst uintptr) {
	swi(FuncLZ77UnCompVRAM, &Regs{R0: uint32(src), R1: uint32(dst)})
}

// HuffUnComp decompresses Huffman data at src with word writes.
func HuffUnComp(src, dst uintptr) {
	swi(FuncHuffUnComp, &Regs{R0: uint32(src), R1: uint32(dst)})
}

// RLUnCompWRAM decompresses run-length data at src with byte writes.
func RLUnCompWRAM(src, dst uintptr) {
	swi(FuncRLUnCompWRAM, &Regs{R0: uint32(src), R1: uint32(dst)})
}

// RLUnCompVRAM decompresses run-length data at src with halfword writes.
func RLUnCompVRAM(src, dst uintptr) {
	swi(FuncRLUnCompVRAM, &Regs{R0: uint32(src), R1: uint32(dst)})
}
