package search

import (
	"math/rand/v2"

	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
)

// InputFlags returns every distinct input-flag value that can change op's
// outcome: all subsets of the flags it reads.
func InputFlags(op inst.OpCode) []cpu.Flags {
	reads := inst.Catalog[op].Reads
	out := []cpu.Flags{0}
	for _, f := range []cpu.Flags{cpu.Carry, cpu.AuxiliaryCarry} {
		if !reads.Has(f) {
			continue
		}
		n := len(out)
		for i := 0; i < n; i++ {
			out = append(out, out[i]|f)
		}
	}
	return out
}

// SpaceSize returns the number of distinct inputs of op.
func SpaceSize(op inst.OpCode) uint64 {
	values := uint64(inst.WidthOf(op).Mask()) + 1
	n := values
	if inst.Operands(op) == 2 {
		n *= values
	}
	return n * uint64(len(InputFlags(op)))
}

// EnumerateOperands calls fn for every input of op.
// fn should return false to stop enumeration early.
func EnumerateOperands(op inst.OpCode, fn func(inst.Instruction) bool) {
	EnumerateRange(op, 0, uint32(inst.WidthOf(op).Mask())+1, fn)
}

// EnumerateRange enumerates the inputs of op whose first operand lies in
// [lo, hi). Used to split one op's space across workers.
func EnumerateRange(op inst.OpCode, lo, hi uint32, fn func(inst.Instruction) bool) {
	flags := InputFlags(op)
	bMax := uint32(0)
	if inst.Operands(op) == 2 {
		bMax = uint32(inst.WidthOf(op).Mask())
	}
	for a := lo; a < hi; a++ {
		for b := uint32(0); b <= bMax; b++ {
			for _, f := range flags {
				if !fn(inst.Instruction{Op: op, A: uint16(a), B: uint16(b), F: f}) {
					return
				}
			}
		}
	}
}

// Sample calls fn for n random inputs of op drawn from rng.
func Sample(rng *rand.Rand, op inst.OpCode, n int, fn func(inst.Instruction) bool) {
	flags := InputFlags(op)
	mask := uint32(inst.WidthOf(op).Mask())
	two := inst.Operands(op) == 2
	for i := 0; i < n; i++ {
		instr := inst.Instruction{
			Op: op,
			A:  uint16(rng.Uint32() & mask),
			F:  flags[rng.IntN(len(flags))],
		}
		if two {
			instr.B = uint16(rng.Uint32() & mask)
		}
		if !fn(instr) {
			return
		}
	}
}
