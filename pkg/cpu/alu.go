package cpu

// Options selects between historically divergent decimal-adjust behaviours.
// The zero value is the default used by the package-level functions.
type Options struct {
	// DecimalAdjustOverflow makes DAA set OF when the adjusted result's sign
	// differs from the input's. Real parts leave OF undefined after DAA.
	DecimalAdjustOverflow bool
}

// === ADD / ADC ===

func ADD8(op1, op2 uint8) (uint8, Flags) {
	result := op1 + op2
	return result, Derive(Byte, Additive, uint16(op1), uint16(op2), uint16(result))
}

func ADD16(op1, op2 uint16) (uint16, Flags) {
	result := op1 + op2
	return result, Derive(Word, Additive, op1, op2, result)
}

// ADC8 adds with the carry taken from in. The carry-in only affects the
// wrapped result; flags are derived from op1, op2 and that result.
func ADC8(op1, op2 uint8, in Flags) (uint8, Flags) {
	result := op1 + op2 + carryIn(in)
	return result, Derive(Byte, Additive, uint16(op1), uint16(op2), uint16(result))
}

func ADC16(op1, op2 uint16, in Flags) (uint16, Flags) {
	result := op1 + op2 + uint16(carryIn(in))
	return result, Derive(Word, Additive, op1, op2, result)
}

// === SUB / SBB ===

func SUB8(op1, op2 uint8) (uint8, Flags) {
	result := op1 - op2
	return result, Derive(Byte, Subtractive, uint16(op1), uint16(op2), uint16(result))
}

func SUB16(op1, op2 uint16) (uint16, Flags) {
	result := op1 - op2
	return result, Derive(Word, Subtractive, op1, op2, result)
}

// SBB8 subtracts op2 and the carry taken from in.
func SBB8(op1, op2 uint8, in Flags) (uint8, Flags) {
	result := op1 - op2 - carryIn(in)
	return result, Derive(Byte, Subtractive, uint16(op1), uint16(op2), uint16(result))
}

func SBB16(op1, op2 uint16, in Flags) (uint16, Flags) {
	result := op1 - op2 - uint16(carryIn(in))
	return result, Derive(Word, Subtractive, op1, op2, result)
}

// === INC / DEC: CF is copied from in, never computed ===

func INC8(op1 uint8, in Flags) (uint8, Flags) {
	result, f := ADD8(op1, 1)
	return result, keepCarry(f, in)
}

func INC16(op1 uint16, in Flags) (uint16, Flags) {
	result, f := ADD16(op1, 1)
	return result, keepCarry(f, in)
}

func DEC8(op1 uint8, in Flags) (uint8, Flags) {
	result, f := SUB8(op1, 1)
	return result, keepCarry(f, in)
}

func DEC16(op1 uint16, in Flags) (uint16, Flags) {
	result, f := SUB16(op1, 1)
	return result, keepCarry(f, in)
}

// === NEG: 0 - op1, no borrow when op1 is zero ===

func NEG8(op1 uint8) (uint8, Flags) {
	result, f := SUB8(0, op1)
	if op1 == 0 {
		f = f.Diff(Carry)
	}
	return result, f
}

func NEG16(op1 uint16) (uint16, Flags) {
	result, f := SUB16(0, op1)
	if op1 == 0 {
		f = f.Diff(Carry)
	}
	return result, f
}

// === CMP: flags of op1 - op2, difference discarded ===

func CMP8(op1, op2 uint8) Flags {
	_, f := SUB8(op1, op2)
	return f
}

func CMP16(op1, op2 uint16) Flags {
	_, f := SUB16(op1, op2)
	return f
}

// === ASCII adjust (AX) ===

// AAA adjusts AX after an unpacked BCD add. AL and AH are adjusted as
// separate bytes, as on the 8086/8088. Only AF and CF are produced; the
// flags are empty when no adjustment was needed.
func AAA(ax uint16, in Flags) (uint16, Flags) {
	var f Flags
	if needsLowAdjust(uint8(ax), in) {
		ax = joinAX(uint8(ax>>8)+1, uint8(ax)+6)
		f = AuxiliaryCarry | Carry
	}
	return ax & 0xFF0F, f
}

// AAS adjusts AX after an unpacked BCD subtract.
func AAS(ax uint16, in Flags) (uint16, Flags) {
	var f Flags
	if needsLowAdjust(uint8(ax), in) {
		ax = joinAX(uint8(ax>>8)-1, uint8(ax)-6)
		f = AuxiliaryCarry | Carry
	}
	return ax & 0xFF0F, f
}

func joinAX(ah, al uint8) uint16 {
	return uint16(ah)<<8 | uint16(al)
}

// === Decimal adjust (AL) ===

func DAA(al uint8, in Flags) (uint8, Flags) { return Options{}.DAA(al, in) }
func DAS(al uint8, in Flags) (uint8, Flags) { return Options{}.DAS(al, in) }

// DAA adjusts AL after a packed BCD add. Both corrections test the value of
// AL before any adjustment.
func (o Options) DAA(al uint8, in Flags) (uint8, Flags) {
	result, f := decimalAdjust(al, in, false)
	if o.DecimalAdjustOverflow {
		f |= bsel((al^result)&0x80 != 0, Overflow, 0)
	}
	return result, f
}

// DAS adjusts AL after a packed BCD subtract. OF is never set.
func (o Options) DAS(al uint8, in Flags) (uint8, Flags) {
	return decimalAdjust(al, in, true)
}

func decimalAdjust(al uint8, in Flags, sub bool) (uint8, Flags) {
	var adj uint8
	var forced Flags
	if needsLowAdjust(al, in) {
		adj = 0x06
		forced |= AuxiliaryCarry
	}
	if al > 0x9F || in.Has(Carry) {
		adj += 0x60
		forced |= Carry
	}
	result := al + adj
	if sub {
		result = al - adj
	}
	return result, forced | Derive(Byte, Adjust, uint16(al), uint16(adj), uint16(result))
}

func needsLowAdjust(al uint8, in Flags) bool {
	return al&0x0F > 9 || in.Has(AuxiliaryCarry)
}

func carryIn(in Flags) uint8 {
	if in.Has(Carry) {
		return 1
	}
	return 0
}

func keepCarry(f, in Flags) Flags {
	return f.Diff(Carry).Union(in.Intersect(Carry))
}
