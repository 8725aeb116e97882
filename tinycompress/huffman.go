package tinycompress

// DecodeHuffman decompresses a Huffman stream of 4- or 8-bit symbols.
//
// After the header comes the tree: one byte giving its size as
// (bytes/2)-1, counted from that byte, then nodes starting with the root.
// A node's low six bits locate its children at (addr&^1)+offset*2+2 and
// (that)+1; bit 7 marks the first child as a leaf and bit 6 the second. The
// bitstream follows the tree as little-endian words read from bit 31 down;
// a 0 takes the first child. 4-bit symbols fill each byte low nibble first.
func DecodeHuffman(src []byte) ([]byte, error) {
	kind, bits, size, err := Header(src)
	if err != nil {
		return nil, err
	}
	if kind != KindHuffman {
		return nil, ErrHeader
	}
	if len(src) < 6 {
		return nil, ErrTruncated
	}

	const root = 5
	treeEnd := 4 + (int(src[4])+1)*2
	data := treeEnd
	if data > len(src) {
		return nil, ErrTruncated
	}

	out := make([]byte, 0, size)
	var acc byte
	var accBits uint8
	node := root
	for len(out) < size {
		if data+4 > len(src) {
			return nil, ErrTruncated
		}
		word := uint32(src[data]) | uint32(src[data+1])<<8 | uint32(src[data+2])<<16 | uint32(src[data+3])<<24
		data += 4

		for bit := 31; bit >= 0 && len(out) < size; bit-- {
			v := src[node]
			child := node&^1 + int(v&0x3F)*2 + 2
			leaf := v&0x80 != 0
			if word>>bit&1 != 0 {
				child++
				leaf = v&0x40 != 0
			}
			if child >= treeEnd {
				return nil, ErrCorrupt
			}
			if !leaf {
				node = child
				continue
			}

			sym := src[child]
			node = root
			if bits == 8 {
				out = append(out, sym)
				continue
			}
			acc |= (sym & 0x0F) << accBits
			accBits += 4
			if accBits == 8 {
				out = append(out, acc)
				acc, accBits = 0, 0
			}
		}
	}
	return out, nil
}
