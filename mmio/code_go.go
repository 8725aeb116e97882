//go:build !tinygo

package mmio

// Host builds have no code addresses, yet the device stores function
// addresses in memory (the interrupt vector). Func hands out a fake address
// inside unused cartridge space and Call jumps to it.

const codeBase = 0x09F00000

var code []func()

// Func registers fn and returns the address that stands for it.
func Func(fn func()) uint32 {
	code = append(code, fn)
	return codeBase + uint32(len(code)-1)*4
}

// Call invokes the function registered at addr. It reports false if addr is
// not a registered code address, which on the device would be a jump into
// garbage.
func Call(addr uint32) bool {
	if addr < codeBase || addr&3 != 0 {
		return false
	}
	i := int((addr - codeBase) / 4)
	if i >= len(code) {
		return false
	}
	code[i]()
	return true
}
