package debug

import (
	"advance/link"
	"advance/mmio"
	"advance/protocol"
)

// mGBA: the text goes into a 256-byte buffer, a write to the flags register
// with bit 8 set prints it at the level in the low bits.
const (
	mgbaEnable = mmio.RW[uint16](0x04FFF780)
	mgbaFlags  = mmio.WO[uint16](0x04FFF700)

	mgbaEnableKey = 0xC0DE
	mgbaEnabled   = 0x1DEA
	mgbaSend      = 0x100
	mgbaChunk     = 255
)

var mgbaString = mmio.NewBlock[uint8](0x04FFF600, 256)

// no$gba: a signature in IO space, and a register that prints one
// character.
const nocashChar = mmio.WO[uint8](0x04FFFA1C)

var nocashID = mmio.NewBlock[uint8](0x04FFFA00, 16)

const nocashSignature = "no$gba"

func detect() Output {
	mgbaEnable.Write(mgbaEnableKey)
	if mgbaEnable.Read() == mgbaEnabled {
		return MGBA
	}
	for i := 0; i < len(nocashSignature); i++ {
		if nocashID.Index(i).Read() != nocashSignature[i] {
			return None
		}
	}
	return Nocash
}

// writeMGBA prints msg, split into as many lines as the buffer needs.
func writeMGBA(l Level, msg string) {
	for {
		n := min(len(msg), mgbaChunk)
		for i := 0; i < n; i++ {
			mgbaString.Index(i).Write(msg[i])
		}
		mgbaString.Index(n).Write(0)
		mgbaFlags.Write(mgbaSend | uint16(l))
		msg = msg[n:]
		if len(msg) == 0 {
			return
		}
	}
}

func writeNocash(msg string) {
	for i := 0; i < len(msg); i++ {
		nocashChar.Write(msg[i])
	}
	nocashChar.Write('\n')
}

var frame protocol.ScratchOutput

func writeLink(seq uint8, l Level, stamp uint32, msg string) {
	var port link.Port
	if !port.Ready() {
		return
	}
	frame.Reset()
	protocol.EncodeRecord(&frame, protocol.Record{
		Seq:   seq,
		Level: uint8(l),
		Stamp: stamp,
		Text:  msg,
	})
	port.Write(frame.Result())
}

// UseLink sets the link port up as a UART and sends records there.
func UseLink(baud link.Baud) {
	link.ConfigureUART(baud)
	SetOutput(Link)
}
