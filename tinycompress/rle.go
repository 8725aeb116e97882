package tinycompress

const (
	rlMinRun   = 3
	rlMaxRun   = 130
	rlMaxPlain = 128
)

// RL compresses input with run-length encoding. A flag byte with bit 7 set
// is followed by one byte repeated (flag&0x7F)+3 times; otherwise it is
// followed by (flag&0x7F)+1 literal bytes.
func (e *Encoder) RL(input []byte) ([]byte, error) {
	if len(input) > MaxSize {
		return nil, ErrTooLarge
	}

	out := putHeader(e.output[:0], byte(KindRL), len(input))
	plainStart := 0
	flushPlain := func(end int) {
		for plainStart < end {
			n := end - plainStart
			if n > rlMaxPlain {
				n = rlMaxPlain
			}
			out = append(out, byte(n-1))
			out = append(out, input[plainStart:plainStart+n]...)
			plainStart += n
		}
	}

	pos := 0
	for pos < len(input) {
		run := 1
		for pos+run < len(input) && run < rlMaxRun && input[pos+run] == input[pos] {
			run++
		}
		if run < rlMinRun {
			pos += run
			continue
		}
		flushPlain(pos)
		out = append(out, 0x80|byte(run-rlMinRun), input[pos])
		pos += run
		plainStart = pos
	}
	flushPlain(len(input))

	e.output = pad4(out)
	return e.output, nil
}

// DecodeRL decompresses a run-length stream.
func DecodeRL(src []byte) ([]byte, error) {
	kind, _, size, err := Header(src)
	if err != nil {
		return nil, err
	}
	if kind != KindRL {
		return nil, ErrHeader
	}

	out := make([]byte, 0, size)
	pos := 4
	for len(out) < size {
		if pos >= len(src) {
			return nil, ErrTruncated
		}
		flag := src[pos]
		pos++
		if flag&0x80 != 0 {
			if pos >= len(src) {
				return nil, ErrTruncated
			}
			b := src[pos]
			pos++
			for n := int(flag&0x7F) + rlMinRun; n > 0 && len(out) < size; n-- {
				out = append(out, b)
			}
			continue
		}
		n := int(flag&0x7F) + 1
		if pos+n > len(src) {
			return nil, ErrTruncated
		}
		if len(out)+n > size {
			n = size - len(out)
		}
		out = append(out, src[pos:pos+n]...)
		pos += int(flag&0x7F) + 1
	}
	return out, nil
}
