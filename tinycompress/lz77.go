package tinycompress

const (
	lzMinMatch  = 3
	lzMaxMatch  = 18
	lzMaxOffset = 4096
)

// LZ77 compresses input. Blocks of eight tokens are preceded by a flag byte,
// most significant bit first; a set flag marks a two-byte back-reference
// (length-3 in the high nibble, offset-1 in the remaining 12 bits).
func (e *Encoder) LZ77(input []byte) ([]byte, error) {
	if len(input) > MaxSize {
		return nil, ErrTooLarge
	}
	minOffset := 1
	if e.VRAMSafe {
		minOffset = 2
	}

	out := putHeader(e.output[:0], byte(KindLZ77), len(input))
	pos := 0
	for pos < len(input) {
		flagAt := len(out)
		out = append(out, 0)
		for bit := 7; bit >= 0 && pos < len(input); bit-- {
			length, offset := longestMatch(input, pos, minOffset)
			if length < lzMinMatch {
				out = append(out, input[pos])
				pos++
				continue
			}
			out[flagAt] |= 1 << bit
			token := uint16(length-lzMinMatch)<<12 | uint16(offset-1)
			out = append(out, byte(token>>8), byte(token))
			pos += length
		}
	}
	e.output = pad4(out)
	return e.output, nil
}

func longestMatch(input []byte, pos, minOffset int) (length, offset int) {
	limit := len(input) - pos
	if limit > lzMaxMatch {
		limit = lzMaxMatch
	}
	for off := minOffset; off <= lzMaxOffset && off <= pos; off++ {
		n := 0
		// Matches may run into the bytes they produce.
		for n < limit && input[pos-off+n] == input[pos+n] {
			n++
		}
		if n > length {
			length, offset = n, off
			if n == limit {
				break
			}
		}
	}
	return length, offset
}

// DecodeLZ77 decompresses an LZ77 stream.
func DecodeLZ77(src []byte) ([]byte, error) {
	kind, _, size, err := Header(src)
	if err != nil {
		return nil, err
	}
	if kind != KindLZ77 {
		return nil, ErrHeader
	}

	out := make([]byte, 0, size)
	pos := 4
	for len(out) < size {
		if pos >= len(src) {
			return nil, ErrTruncated
		}
		flags := src[pos]
		pos++
		for bit := 7; bit >= 0 && len(out) < size; bit-- {
			if flags&(1<<bit) == 0 {
				if pos >= len(src) {
					return nil, ErrTruncated
				}
				out = append(out, src[pos])
				pos++
				continue
			}
			if pos+1 >= len(src) {
				return nil, ErrTruncated
			}
			length := int(src[pos]>>4) + lzMinMatch
			offset := (int(src[pos]&0x0F)<<8 | int(src[pos+1])) + 1
			pos += 2
			if offset > len(out) {
				return nil, ErrCorrupt
			}
			for i := 0; i < length && len(out) < size; i++ {
				out = append(out, out[len(out)-offset])
			}
		}
	}
	return out, nil
}
