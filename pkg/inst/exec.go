package inst

import "github.com/oisee/alu8088/pkg/cpu"

// Eval runs op on raw operands and input flags and returns the engine's
// result and output flags, with no register merging. Operands are truncated
// to the op's width. For CMP the result is zero.
func Eval(op OpCode, a, b uint16, in cpu.Flags, opts cpu.Options) (uint16, cpu.Flags) {
	a8, b8 := uint8(a), uint8(b)
	switch op {
	case ADD8:
		r, f := cpu.ADD8(a8, b8)
		return uint16(r), f
	case ADD16:
		return cpu.ADD16(a, b)
	case ADC8:
		r, f := cpu.ADC8(a8, b8, in)
		return uint16(r), f
	case ADC16:
		return cpu.ADC16(a, b, in)
	case SUB8:
		r, f := cpu.SUB8(a8, b8)
		return uint16(r), f
	case SUB16:
		return cpu.SUB16(a, b)
	case SBB8:
		r, f := cpu.SBB8(a8, b8, in)
		return uint16(r), f
	case SBB16:
		return cpu.SBB16(a, b, in)
	case INC8:
		r, f := cpu.INC8(a8, in)
		return uint16(r), f
	case INC16:
		return cpu.INC16(a, in)
	case DEC8:
		r, f := cpu.DEC8(a8, in)
		return uint16(r), f
	case DEC16:
		return cpu.DEC16(a, in)
	case NEG8:
		r, f := cpu.NEG8(a8)
		return uint16(r), f
	case NEG16:
		return cpu.NEG16(a)
	case CMP8:
		return 0, cpu.CMP8(a8, b8)
	case CMP16:
		return 0, cpu.CMP16(a, b)
	case AAA:
		return cpu.AAA(a, in)
	case AAS:
		return cpu.AAS(a, in)
	case DAA:
		r, f := opts.DAA(a8, in)
		return uint16(r), f
	case DAS:
		r, f := opts.DAS(a8, in)
		return uint16(r), f
	}
	return 0, 0
}

// Affected returns the flags op overwrites in the FLAGS register.
func Affected(op OpCode, opts cpu.Options) cpu.Flags {
	f := Catalog[op].Defines
	if op == DAA && opts.DecimalAdjustOverflow {
		f |= cpu.Overflow
	}
	return f
}

// Exec executes op against s the way an execute loop would: the
// accumulator takes the result (AL only for byte ops, untouched for CMP)
// and the output flags are merged into s.F.
func Exec(s *cpu.State, op OpCode, opts cpu.Options) {
	r, f := Eval(op, s.A, s.B, s.F, opts)
	if HasResult(op) {
		if WidthOf(op) == cpu.Byte {
			s.A = s.A&0xFF00 | r&0x00FF
		} else {
			s.A = r
		}
	}
	s.F = cpu.Merge(s.F, f, Affected(op, opts))
}
