package tinycompress

import (
	"bytes"
	"errors"
	"testing"
)

func testInputs() map[string][]byte {
	noise := make([]byte, 3000)
	x := uint32(1)
	for i := range noise {
		x = x*1664525 + 1013904223
		noise[i] = byte(x >> 24)
	}
	text := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 40)
	runs := append(bytes.Repeat([]byte{0}, 500), append([]byte{1, 2, 3}, bytes.Repeat([]byte{0xFF}, 131)...)...)

	return map[string][]byte{
		"empty":  {},
		"one":    {0x42},
		"two":    {0x42, 0x42},
		"noise":  noise,
		"text":   text,
		"runs":   runs,
		"window": append(append([]byte{}, noise[:200]...), append(make([]byte, 4200), noise[:200]...)...),
	}
}

func TestLZ77RoundTrip(t *testing.T) {
	for _, vram := range []bool{false, true} {
		enc := NewEncoder(1024)
		enc.VRAMSafe = vram
		for name, in := range testInputs() {
			out, err := enc.LZ77(in)
			if err != nil {
				t.Fatalf("%s: LZ77: %v", name, err)
			}
			if len(out)%4 != 0 {
				t.Errorf("%s: output length %d not padded to words", name, len(out))
			}
			got, err := DecodeLZ77(out)
			if err != nil {
				t.Fatalf("%s (vram=%v): decode: %v", name, vram, err)
			}
			if !bytes.Equal(got, in) {
				t.Errorf("%s (vram=%v): round trip mismatch", name, vram)
			}
			t.Logf("%s vram=%v: %d -> %d bytes", name, vram, len(in), len(out))
		}
	}
}

func TestLZ77KnownStream(t *testing.T) {
	out, err := NewEncoder(0).LZ77(bytes.Repeat([]byte{'A'}, 10))
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x10, 10, 0, 0, 0x40, 'A', 0x60, 0x00}
	if !bytes.Equal(out, want) {
		t.Errorf("LZ77 = % x, want % x", out, want)
	}
}

func TestLZ77VRAMSafeOffsets(t *testing.T) {
	enc := NewEncoder(0)
	enc.VRAMSafe = true
	out, err := enc.LZ77(bytes.Repeat([]byte{7}, 64))
	if err != nil {
		t.Fatal(err)
	}
	pos := 4
	for pos < len(out) {
		flags := out[pos]
		pos++
		for bit := 7; bit >= 0 && pos < len(out); bit-- {
			if flags&(1<<bit) == 0 {
				pos++
				continue
			}
			if off := (int(out[pos]&0x0F)<<8 | int(out[pos+1])) + 1; off < 2 {
				t.Fatalf("back-reference of offset %d at %d", off, pos)
			}
			pos += 2
		}
	}
}

func TestRLRoundTrip(t *testing.T) {
	enc := NewEncoder(1024)
	for name, in := range testInputs() {
		out, err := enc.RL(in)
		if err != nil {
			t.Fatalf("%s: RL: %v", name, err)
		}
		got, err := Decompress(out)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if !bytes.Equal(got, in) {
			t.Errorf("%s: round trip mismatch", name)
		}
	}
}

func TestRLKnownStream(t *testing.T) {
	out, err := NewEncoder(0).RL([]byte{1, 2, 5, 5, 5, 5})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x30, 6, 0, 0, 0x01, 1, 2, 0x81, 5, 0, 0, 0}
	if !bytes.Equal(out, want) {
		t.Errorf("RL = % x, want % x", out, want)
	}
}

func TestDecodeHuffman(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want []byte
	}{
		{
			name: "8-bit",
			// root at 5 has two leaves at 6 and 7; bits 0110
			src:  []byte{0x28, 4, 0, 0, 1, 0xC0, 'A', 'B', 0x00, 0x00, 0x00, 0x60},
			want: []byte("ABBA"),
		},
		{
			name: "4-bit",
			// symbols 3 then 10 pack into 0xA3
			src:  []byte{0x24, 1, 0, 0, 1, 0xC0, 0x03, 0x0A, 0x00, 0x00, 0x00, 0x40},
			want: []byte{0xA3},
		},
		{
			name: "nested",
			// root: first child leaf 'x' at 6, second child node at 7
			// node 7: children at 6+0*2+2 = 8, 9 ('y', 'z')
			// bits 0 10 11 -> x y z
			src:  []byte{0x28, 3, 0, 0, 2, 0x80, 'x', 0xC0, 'y', 'z', 0x00, 0x00, 0x00, 0x58},
			want: []byte("xyz"),
		},
	}
	for _, tt := range tests {
		got, err := Decompress(tt.src)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("%s: got % x, want % x", tt.name, got, tt.want)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  []byte
		want error
	}{
		{"short header", []byte{0x10, 1}, ErrTruncated},
		{"unknown type", []byte{0x50, 1, 0, 0}, ErrHeader},
		{"huffman width", []byte{0x23, 1, 0, 0}, ErrHeader},
		{"lz77 missing data", []byte{0x10, 8, 0, 0, 0x00, 'a'}, ErrTruncated},
		{"lz77 offset before start", []byte{0x10, 4, 0, 0, 0x80, 0x00, 0x05}, ErrCorrupt},
		{"rl missing data", []byte{0x30, 4, 0, 0, 0x03, 'a'}, ErrTruncated},
	}
	for _, tt := range tests {
		if _, err := Decompress(tt.src); !errors.Is(err, tt.want) {
			t.Errorf("%s: err = %v, want %v", tt.name, err, tt.want)
		}
	}
}
