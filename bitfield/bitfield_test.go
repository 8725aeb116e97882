package bitfield

import "testing"

func TestMask(t *testing.T) {
	if got := Mask[uint8](3); got != 0b111 {
		t.Errorf("Mask[uint8](3) = %#b, want 0b111", got)
	}
	if got := Mask[uint16](16); got != 0xFFFF {
		t.Errorf("Mask[uint16](16) = %#x, want 0xffff", got)
	}
	if got := Mask[uint32](32); got != 0xFFFFFFFF {
		t.Errorf("Mask[uint32](32) = %#x, want 0xffffffff", got)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	// Every field position and width of an 8-bit register, every value.
	for shift := uint(0); shift < 8; shift++ {
		for width := uint(1); shift+width <= 8; width++ {
			for base := 0; base < 256; base++ {
				for xi := 0; xi <= int(Mask[uint8](width)); xi++ {
					x := uint8(xi)
					v := Set(uint8(base), shift, width, x)
					if got := Get(v, shift, width); got != x {
						t.Fatalf("shift=%d width=%d base=%#x: Get(Set(%d)) = %d", shift, width, base, x, got)
					}
					outside := ^(Mask[uint8](width) << shift)
					if v&outside != uint8(base)&outside {
						t.Fatalf("shift=%d width=%d: Set(%#x, %d) touched bits outside the field: %#x", shift, width, base, x, v)
					}
				}
			}
		}
	}
}

func TestDisjointFieldsIndependent(t *testing.T) {
	type field struct{ shift, width uint }
	fields := []field{{0, 3}, {3, 1}, {4, 1}, {5, 2}, {8, 4}, {12, 4}}

	for _, a := range fields {
		for _, b := range fields {
			if a == b {
				continue
			}
			for _, r := range []uint16{0, 0xFFFF, 0xA5A5, 0x1234} {
				for x := uint16(0); x <= Mask[uint16](a.width); x++ {
					before := Get(r, b.shift, b.width)
					after := Get(Set(r, a.shift, a.width, x), b.shift, b.width)
					if before != after {
						t.Errorf("setting field %v to %d changed field %v: %d -> %d", a, x, b, before, after)
					}
				}
			}
		}
	}
}

func TestSetTruncatesToWidth(t *testing.T) {
	v := Set(uint16(0), 4, 3, 0b1011)
	if got := Get(v, 4, 3); got != 0b011 {
		t.Errorf("3-bit field given 0b1011 reads back %#b, want 0b011", got)
	}
	if v != 0b011<<4 {
		t.Errorf("3-bit field given 0b1011 stored %#b, want %#b", v, 0b011<<4)
	}
}

func TestBits(t *testing.T) {
	var v uint32
	for n := uint(0); n < 32; n++ {
		v = SetBit(v, n, true)
		if !Bit(v, n) {
			t.Errorf("bit %d not set", n)
		}
	}
	if v != 0xFFFFFFFF {
		t.Errorf("all bits set = %#x", v)
	}
	v = SetBit(v, 7, false)
	if Bit(v, 7) || v != 0xFFFFFF7F {
		t.Errorf("clearing bit 7 gave %#x", v)
	}
}
