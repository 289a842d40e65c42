package cpu

import (
	"fmt"
	"testing"
)

const (
	CF = Carry
	PF = Parity
	AF = AuxiliaryCarry
	ZF = Zero
	SF = Sign
	OF = Overflow
)

// TestAdd8 covers ADD with 8-bit operands.
func TestAdd8(t *testing.T) {
	tests := []struct {
		a, b  uint8
		want  uint8
		flags Flags
	}{
		{43, 94, 137, AF | SF | OF},
		{0, 0, 0, ZF | PF},
		{1, 0, 1, 0},
		{0xFF, 1, 0, CF | ZF | PF | AF},
		{0xF0, 0xF0, 0xE0, SF | CF},
		{0x7F, 1, 0x80, SF | OF | AF},
		{0x80, 0x80, 0, CF | ZF | PF | OF},
		{0x0F, 0x01, 0x10, AF},
	}
	for _, tc := range tests {
		r, f := ADD8(tc.a, tc.b)
		if r != tc.want || f != tc.flags {
			t.Errorf("ADD8(%02X, %02X) = (%02X, %v), want (%02X, %v)", tc.a, tc.b, r, f, tc.want, tc.flags)
		}
	}
}

// TestAdd16 covers ADD with 16-bit operands.
func TestAdd16(t *testing.T) {
	tests := []struct {
		a, b  uint16
		want  uint16
		flags Flags
	}{
		{0, 0, 0, ZF | PF},
		{1, 0, 1, 0},
		{0xFFFF, 1, 0, CF | ZF | PF | AF},
		{0xFFF0, 0xFFF0, 0xFFE0, SF | CF},
		{0x7FFF, 1, 0x8000, SF | OF | AF | PF},
	}
	for _, tc := range tests {
		r, f := ADD16(tc.a, tc.b)
		if r != tc.want || f != tc.flags {
			t.Errorf("ADD16(%04X, %04X) = (%04X, %v), want (%04X, %v)", tc.a, tc.b, r, f, tc.want, tc.flags)
		}
	}
}

// TestAddZeroIdentity checks ADD8(a, 0) for every byte.
func TestAddZeroIdentity(t *testing.T) {
	for a := 0; a < 256; a++ {
		r, f := ADD8(uint8(a), 0)
		if r != uint8(a) {
			t.Fatalf("ADD8(%02X, 0) result %02X", a, r)
		}
		if f.Has(ZF) != (a == 0) {
			t.Errorf("ADD8(%02X, 0): zero=%v", a, f.Has(ZF))
		}
		if f.Intersect(CF|OF|AF) != 0 {
			t.Errorf("ADD8(%02X, 0): unexpected %v", a, f.Intersect(CF|OF|AF))
		}
	}
}

func TestAdc(t *testing.T) {
	tests := []struct {
		a, b  uint8
		in    Flags
		want  uint8
		flags Flags
	}{
		{0, 0, 0, 0, ZF | PF},
		{0, 0, CF, 1, 0},
		{1, 0, CF, 2, 0},
		{1, 0, CF | SF | ZF, 2, 0}, // only CF is read
		{0xFE, 0x01, CF, 0, CF | ZF | PF | AF},
	}
	for _, tc := range tests {
		r, f := ADC8(tc.a, tc.b, tc.in)
		if r != tc.want || f != tc.flags {
			t.Errorf("ADC8(%02X, %02X, %v) = (%02X, %v), want (%02X, %v)", tc.a, tc.b, tc.in, r, f, tc.want, tc.flags)
		}
		r16, f16 := ADC16(uint16(tc.a), uint16(tc.b), tc.in)
		if tc.a < 0x80 && (r16 != uint16(tc.want) || f16 != tc.flags) {
			t.Errorf("ADC16(%04X, %04X, %v) = (%04X, %v), want (%04X, %v)", tc.a, tc.b, tc.in, r16, f16, tc.want, tc.flags)
		}
	}
	if r, f := ADC16(0xFFFF, 0, CF); r != 0 || f != CF|ZF|PF|AF {
		t.Errorf("ADC16(FFFF, 0, CF) = (%04X, %v), want (0000, CF|PF|AF|ZF)", r, f)
	}
}

func TestSub8(t *testing.T) {
	tests := []struct {
		a, b  uint8
		want  uint8
		flags Flags
	}{
		{0x55, 0x55, 0, ZF | PF},
		{3, 2, 1, 0},
		{25, 11, 14, AF},
		{38, 119, 175, CF | PF | AF | SF},
		{128, 127, 1, AF | OF},
	}
	for _, tc := range tests {
		r, f := SUB8(tc.a, tc.b)
		if r != tc.want || f != tc.flags {
			t.Errorf("SUB8(%d, %d) = (%d, %v), want (%d, %v)", tc.a, tc.b, r, f, tc.want, tc.flags)
		}
	}
}

func TestSub16(t *testing.T) {
	tests := []struct {
		a, b  uint16
		want  uint16
		flags Flags
	}{
		{0x55FF, 0x55FF, 0, ZF | PF},
		{0xFF01, 0xFF00, 1, 0},
		{281, 267, 14, AF},
		{294, 375, 65455, CF | PF | AF | SF},
		{32768, 32767, 1, AF | OF},
	}
	for _, tc := range tests {
		r, f := SUB16(tc.a, tc.b)
		if r != tc.want || f != tc.flags {
			t.Errorf("SUB16(%d, %d) = (%d, %v), want (%d, %v)", tc.a, tc.b, r, f, tc.want, tc.flags)
		}
	}
}

func TestSbb(t *testing.T) {
	tests := []struct {
		a, b  uint16
		in    Flags
		want  uint16
		flags Flags
	}{
		{0, 0, 0, 0, ZF | PF},
		{1, 0, 0, 1, 0},
		{3, 1, CF, 1, 0},
	}
	for _, tc := range tests {
		r8, f8 := SBB8(uint8(tc.a), uint8(tc.b), tc.in)
		if uint16(r8) != tc.want || f8 != tc.flags {
			t.Errorf("SBB8(%d, %d, %v) = (%d, %v), want (%d, %v)", tc.a, tc.b, tc.in, r8, f8, tc.want, tc.flags)
		}
		r16, f16 := SBB16(tc.a, tc.b, tc.in)
		if r16 != tc.want || f16 != tc.flags {
			t.Errorf("SBB16(%d, %d, %v) = (%d, %v), want (%d, %v)", tc.a, tc.b, tc.in, r16, f16, tc.want, tc.flags)
		}
	}
}

// TestSubAddRoundTrip checks (a - b) + b == a for every byte pair.
func TestSubAddRoundTrip(t *testing.T) {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			d, _ := SUB8(uint8(a), uint8(b))
			s, _ := ADD8(d, uint8(b))
			if s != uint8(a) {
				t.Fatalf("(%02X - %02X) + %02X = %02X", a, b, b, s)
			}
		}
	}
}

// TestIncDecKeepCarry checks that INC/DEC never compute CF, only copy it.
func TestIncDecKeepCarry(t *testing.T) {
	if r, f := INC16(0xFFFF, 0); r != 0 || f != ZF|PF|AF {
		t.Errorf("INC16(FFFF) = (%04X, %v), want (0000, PF|AF|ZF)", r, f)
	}
	if r, f := INC8(0xFF, 0); r != 0 || f != ZF|PF|AF {
		t.Errorf("INC8(FF) = (%02X, %v), want (00, PF|AF|ZF)", r, f)
	}
	if r, f := DEC16(0, 0); r != 0xFFFF || f != SF|PF|AF {
		t.Errorf("DEC16(0) = (%04X, %v), want (FFFF, PF|AF|SF)", r, f)
	}
	if r, f := DEC8(0, 0); r != 0xFF || f != SF|PF|AF {
		t.Errorf("DEC8(0) = (%02X, %v), want (FF, PF|AF|SF)", r, f)
	}

	for a := 0; a < 256; a++ {
		for _, in := range []Flags{0, CF, CF | Trap | Direction, ZF | SF} {
			_, fi := INC8(uint8(a), in)
			_, fd := DEC8(uint8(a), in)
			if fi.Has(CF) != in.Has(CF) || fd.Has(CF) != in.Has(CF) {
				t.Fatalf("a=%02X in=%v: INC CF=%v DEC CF=%v", a, in, fi.Has(CF), fd.Has(CF))
			}
			if fi.Intersect(Control) != 0 || fd.Intersect(Control) != 0 {
				t.Fatalf("a=%02X in=%v: control bits leaked into output", a, in)
			}
		}
	}
}

func TestNeg(t *testing.T) {
	tests8 := []struct {
		a     uint8
		want  uint8
		flags Flags
	}{
		{11, 245, CF | SF | PF | AF},
		{200, 56, CF | AF},
		{0, 0, ZF | PF},
		{0x80, 0x80, CF | SF | OF},
	}
	for _, tc := range tests8 {
		r, f := NEG8(tc.a)
		if r != tc.want || f != tc.flags {
			t.Errorf("NEG8(%02X) = (%02X, %v), want (%02X, %v)", tc.a, r, f, tc.want, tc.flags)
		}
	}

	tests16 := []struct {
		a     uint16
		want  uint16
		flags Flags
	}{
		{11, 0xFFF5, CF | SF | PF | AF},
		{0x8010, 0x7FF0, CF | PF},
		{0, 0, ZF | PF},
		{0x8000, 0x8000, CF | PF | SF | OF},
	}
	for _, tc := range tests16 {
		r, f := NEG16(tc.a)
		if r != tc.want || f != tc.flags {
			t.Errorf("NEG16(%04X) = (%04X, %v), want (%04X, %v)", tc.a, r, f, tc.want, tc.flags)
		}
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b  uint16
		flags Flags
	}{
		{0x55, 0x55, ZF | PF},
		{3, 2, 0},
		{25, 11, AF},
		{38, 119, CF | PF | AF | SF},
		{128, 127, AF | OF},
	}
	for _, tc := range tests {
		if f := CMP8(uint8(tc.a), uint8(tc.b)); f != tc.flags {
			t.Errorf("CMP8(%d, %d) = %v, want %v", tc.a, tc.b, f, tc.flags)
		}
	}

	if f := CMP16(0x55FF, 0x55FF); f != ZF|PF {
		t.Errorf("CMP16(55FF, 55FF) = %v", f)
	}
	if f := CMP16(0xFF01, 0xFF00); f != 0 {
		t.Errorf("CMP16(FF01, FF00) = %v", f)
	}
	if f := CMP16(294, 375); f != CF|PF|AF|SF {
		t.Errorf("CMP16(294, 375) = %v", f)
	}
	if f := CMP16(32768, 32767); f != AF|OF {
		t.Errorf("CMP16(32768, 32767) = %v", f)
	}

	// CMP must agree with SUB's flags everywhere.
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			_, want := SUB8(uint8(a), uint8(b))
			if got := CMP8(uint8(a), uint8(b)); got != want {
				t.Fatalf("CMP8(%02X, %02X) = %v, SUB8 flags %v", a, b, got, want)
			}
		}
	}
}

func TestAsciiAdjust(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(uint16, Flags) (uint16, Flags)
		ax    uint16
		in    Flags
		want  uint16
		flags Flags
	}{
		{"AAA", AAA, 11, 0, 257, CF | AF},
		{"AAA", AAA, 0x0005, AF, 0x010B, CF | AF},
		{"AAA", AAA, 0x00FA, 0, 0x0100, CF | AF}, // AL wraps without carrying into AH
		{"AAA", AAA, 0x12F9, CF | SF, 0x1209, 0},
		{"AAS", AAS, 0x5C7, CF | SF, 0x507, 0},
		{"AAS", AAS, 0x020B, 0, 0x0105, CF | AF},
		{"AAS", AAS, 0x0003, AF, 0xFF0D, CF | AF},
	}
	for _, tc := range tests {
		r, f := tc.fn(tc.ax, tc.in)
		if r != tc.want || f != tc.flags {
			t.Errorf("%s(%04X, %v) = (%04X, %v), want (%04X, %v)", tc.name, tc.ax, tc.in, r, f, tc.want, tc.flags)
		}
	}

	// Bits 4-7 of AL are always cleared.
	for ax := 0; ax < 0x10000; ax += 7 {
		for _, in := range []Flags{0, AF} {
			r1, _ := AAA(uint16(ax), in)
			r2, _ := AAS(uint16(ax), in)
			if r1&0x00F0 != 0 || r2&0x00F0 != 0 {
				t.Fatalf("AX=%04X: high nibble of AL not cleared (%04X, %04X)", ax, r1, r2)
			}
		}
	}
}

func TestDecimalAdjust(t *testing.T) {
	tests := []struct {
		name  string
		fn    func(uint8, Flags) (uint8, Flags)
		al    uint8
		in    Flags
		want  uint8
		flags Flags
	}{
		{"DAA", DAA, 0xAE, SF, 0x14, AF | PF | CF},
		{"DAA", DAA, 0x12, 0, 0x12, PF},
		{"DAA", DAA, 0x0A, 0, 0x10, AF},
		{"DAA", DAA, 0x00, CF, 0x60, CF | PF},
		{"DAA", DAA, 0x9A, 0, 0xA0, AF | SF | PF},
		{"DAS", DAS, 0xEE, 0, 0x88, SF | AF | PF | CF},
		{"DAS", DAS, 0x00, 0, 0x00, ZF | PF},
		{"DAS", DAS, 0x06, AF, 0x00, AF | ZF | PF},
	}
	for _, tc := range tests {
		r, f := tc.fn(tc.al, tc.in)
		if r != tc.want || f != tc.flags {
			t.Errorf("%s(%02X, %v) = (%02X, %v), want (%02X, %v)", tc.name, tc.al, tc.in, r, f, tc.want, tc.flags)
		}
	}
}

func TestDecimalAdjustOverflowOption(t *testing.T) {
	opts := Options{DecimalAdjustOverflow: true}
	r, f := opts.DAA(0xAE, SF)
	if r != 0x14 || f != AF|PF|CF|OF {
		t.Errorf("DAA(AE) with overflow = (%02X, %v), want (14, CF|PF|AF|OF)", r, f)
	}
	for al := 0; al < 256; al++ {
		for _, in := range []Flags{0, AF, CF, AF | CF} {
			r0, f0 := DAA(uint8(al), in)
			r1, f1 := opts.DAA(uint8(al), in)
			if r0 != r1 || f1.Diff(OF) != f0 {
				t.Fatalf("DAA(%02X, %v): option changed more than OF", al, in)
			}
			if f0.Has(OF) {
				t.Fatalf("DAA(%02X, %v) set OF by default", al, in)
			}
			if _, fs := opts.DAS(uint8(al), in); fs.Has(OF) {
				t.Fatalf("DAS(%02X, %v) set OF", al, in)
			}
		}
	}
}

func ExampleADD8() {
	r, f := ADD8(0x7F, 0x01)
	fmt.Printf("%02X %v\n", r, f)
	// Output: 80 AF|SF|OF
}
