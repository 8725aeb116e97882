// Package tinycompress implements the compression formats the device BIOS
// decompresses: LZ77 (type 0x10), run-length (0x30) and Huffman (0x20).
//
// Every stream starts with a 32-bit little-endian header: the low byte is
// the type (with the Huffman symbol width in its low nibble) and the upper
// 24 bits are the decompressed size. Encoders pad their output to a multiple
// of 4 bytes, since the BIOS reads the source as words.
package tinycompress

import "errors"

// Kind is the type byte of a compressed stream with any parameter nibble
// removed.
type Kind uint8

const (
	KindLZ77    Kind = 0x10
	KindHuffman Kind = 0x20
	KindRL      Kind = 0x30
)

func (k Kind) String() string {
	switch k {
	case KindLZ77:
		return "LZ77"
	case KindHuffman:
		return "Huffman"
	case KindRL:
		return "RL"
	}
	return "Unknown"
}

// MaxSize is the largest decompressed size a header can carry.
const MaxSize = 1<<24 - 1

var (
	ErrHeader    = errors.New("tinycompress: bad header")
	ErrTruncated = errors.New("tinycompress: stream truncated")
	ErrCorrupt   = errors.New("tinycompress: corrupt stream")
	ErrTooLarge  = errors.New("tinycompress: input exceeds 16MiB")
)

// Header decodes the stream header. param is the low nibble of the type
// byte (the Huffman symbol width).
func Header(src []byte) (kind Kind, param uint8, size int, err error) {
	if len(src) < 4 {
		return 0, 0, 0, ErrTruncated
	}
	kind = Kind(src[0] & 0xF0)
	param = src[0] & 0x0F
	size = int(src[1]) | int(src[2])<<8 | int(src[3])<<16
	switch kind {
	case KindLZ77, KindRL:
		if param != 0 {
			return 0, 0, 0, ErrHeader
		}
	case KindHuffman:
		if param != 4 && param != 8 {
			return 0, 0, 0, ErrHeader
		}
	default:
		return 0, 0, 0, ErrHeader
	}
	return kind, param, size, nil
}

func putHeader(dst []byte, b byte, size int) []byte {
	return append(dst, b, byte(size), byte(size>>8), byte(size>>16))
}

func pad4(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// Decompress decodes a stream of any supported kind.
func Decompress(src []byte) ([]byte, error) {
	kind, _, _, err := Header(src)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindLZ77:
		return DecodeLZ77(src)
	case KindRL:
		return DecodeRL(src)
	}
	return DecodeHuffman(src)
}

// Encoder compresses into a reusable output buffer. The returned slices
// alias that buffer and are valid until the next call.
type Encoder struct {
	output []byte

	// VRAMSafe keeps every LZ77 back-reference at least two bytes back so
	// LZ77UnCompVRAM, which writes halfwords, reads data it has already
	// written.
	VRAMSafe bool
}

// NewEncoder creates an encoder with bufferSize bytes of output
// preallocated.
func NewEncoder(bufferSize int) *Encoder {
	return &Encoder{output: make([]byte, 0, bufferSize)}
}
