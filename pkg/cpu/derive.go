package cpu

// Width selects the operand size of an operation.
type Width uint8

const (
	Byte Width = 8
	Word Width = 16
)

// Bits returns the operand size in bits.
func (w Width) Bits() uint { return uint(w) }

// Mask returns the all-ones value for the width.
func (w Width) Mask() uint16 {
	if w == Byte {
		return 0x00FF
	}
	return 0xFFFF
}

// SignBit returns the most significant bit for the width.
func (w Width) SignBit() uint16 {
	if w == Byte {
		return 0x0080
	}
	return 0x8000
}

func (w Width) String() string {
	if w == Byte {
		return "byte"
	}
	return "word"
}

// Category selects which carry, auxiliary-carry and overflow rules apply.
type Category uint8

const (
	Additive    Category = iota // ADD, ADC, INC
	Subtractive                 // SUB, SBB, DEC, CMP, NEG
	Adjust                      // AAA, AAS, DAA, DAS: CF and AF are forced by the caller
)

// Derive computes the status flags for result = op1 (op) op2 at width w.
// Operands are masked to the width first.
func Derive(w Width, cat Category, op1, op2, result uint16) Flags {
	m := w.Mask()
	op1, op2, result = op1&m, op2&m, result&m

	f := ParityOf(result) | ZeroOf(result) | SignOf(w, result)
	switch cat {
	case Additive:
		f |= CarryAdd(op1, result) |
			AuxAdd(op1, op2, result) |
			OverflowAdd(w, op1, op2, result)
	case Subtractive:
		f |= CarrySub(op1, op2) |
			AuxSub(op1, op2) |
			OverflowSub(w, op1, op2, result)
	}
	return f
}

// ParityOf is set when the low byte of result has an even number of ones,
// whatever the operand width.
func ParityOf(result uint16) Flags {
	return ParityTable[uint8(result)]
}

// ZeroOf is set when the width-masked result is zero.
func ZeroOf(result uint16) Flags {
	return bsel(result == 0, Zero, 0)
}

// SignOf copies the top bit of the result for width w.
func SignOf(w Width, result uint16) Flags {
	return bsel(result&w.SignBit() != 0, Sign, 0)
}

// CarryAdd detects unsigned wraparound: the sum went backwards.
func CarryAdd(op1, result uint16) Flags {
	return bsel(result < op1, Carry, 0)
}

// CarrySub detects an unsigned borrow.
func CarrySub(op1, op2 uint16) Flags {
	return bsel(op2 > op1, Carry, 0)
}

// AuxAdd reconstructs the bit 3 -> bit 4 carry from bit 3 of both operands
// and the result.
func AuxAdd(op1, op2, result uint16) Flags {
	r, a, b := result&0x08, op1&0x08, op2&0x08
	return bsel(r&a&b != 0 || (r == 0 && a|b != 0), AuxiliaryCarry, 0)
}

// AuxSub detects a borrow out of the low nibble.
func AuxSub(op1, op2 uint16) Flags {
	return bsel(op2&0x0F > op1&0x0F, AuxiliaryCarry, 0)
}

// OverflowAdd is set when two operands of the same sign produce a result of
// the other sign.
func OverflowAdd(w Width, op1, op2, result uint16) Flags {
	s := w.SignBit()
	a, b, r := op1&s, op2&s, result&s
	return bsel(a == b && a != r, Overflow, 0)
}

// OverflowSub is set when the operand signs differ and the result takes the
// sign of op2.
func OverflowSub(w Width, op1, op2, result uint16) Flags {
	s := w.SignBit()
	a, b, r := op1&s, op2&s, result&s
	return bsel(a != b && r == b, Overflow, 0)
}

// bsel returns a if cond is true, else b.
func bsel(cond bool, a, b Flags) Flags {
	if cond {
		return a
	}
	return b
}
