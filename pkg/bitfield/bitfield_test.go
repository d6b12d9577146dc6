package bitfield

import "testing"

func TestGet(t *testing.T) {
	cases := []struct {
		name string
		f    Field
		word uint32
		want uint32
	}{
		{"opcode nibble", Field{Width: 4, LSB: 28}, 0xD0000048, 0xD},
		{"low three bits", Field{Width: 3, LSB: 0}, 0b1101, 0b101},
		{"middle field", Field{Width: 2, LSB: 1}, 0b1101, 0b10},
		{"full width", Field{Width: 32, LSB: 0}, 0xFFFFFFFF, 0xFFFFFFFF},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Get(tc.word); got != tc.want {
				t.Fatalf("Get(%#x) = %#x, want %#x", tc.word, got, tc.want)
			}
		})
	}
}

func TestPutRoundTrip(t *testing.T) {
	f := Field{Width: 4, LSB: 28}
	word := f.Put(0, 0xD)
	if got := f.Get(word); got != 0xD {
		t.Fatalf("round trip failed: got %#x", got)
	}
}

func TestFitsUnsigned(t *testing.T) {
	if !FitsUnsigned(2, 3) {
		t.Fatal("2 should fit in 3 unsigned bits")
	}
	if FitsUnsigned(8, 3) {
		t.Fatal("8 should not fit in 3 unsigned bits")
	}
	if !FitsUnsigned(1<<25-1, 25) {
		t.Fatal("max 25-bit immediate should fit")
	}
}

func TestFitsSigned(t *testing.T) {
	if !FitsSigned(3, 3) {
		t.Fatal("3 should fit in 3 signed bits")
	}
	if FitsSigned(4, 3) {
		t.Fatal("4 should not fit in 3 signed bits")
	}
	if !FitsSigned(-4, 3) {
		t.Fatal("-4 should fit in 3 signed bits")
	}
	if FitsSigned(-5, 3) {
		t.Fatal("-5 should not fit in 3 signed bits")
	}
}
