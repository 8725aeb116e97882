// Package protocol frames log records for the link cable and parses them
// back on the host.
//
// A record on the wire:
//
//	[len][seq][level][stamp vlq][text len vlq][text][crc hi][crc lo][0x7E]
//
// len counts every byte of the frame including the trailer. The CRC covers
// everything before it. 0x7E closes a frame and lets a reader that joined
// mid-stream find the next one.
package protocol

// Version of the record format
const Version = "1"

// Frame constants
const (
	MessageMax     = 256 // Largest encode buffer; one frame always fits
	MessageHeader  = 3   // len, seq, level
	MessageTrailer = 3   // CRC and sync

	RecordLengthMin = MessageHeader + 2 + MessageTrailer // empty text, stamp 0
	RecordLengthMax = 255

	PositionLen   = 0
	PositionSeq   = 1
	PositionLevel = 2

	TrailerCRC  = 3 // offset of the CRC from the end of the frame
	TrailerSync = 1
	ValueSync   = 0x7E
)

// Record is one log line.
type Record struct {
	Seq   uint8
	Level uint8
	Stamp uint32
	Text  string
}
