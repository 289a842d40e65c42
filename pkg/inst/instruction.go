package inst

import "github.com/oisee/alu8088/pkg/cpu"

// OpCode identifies one ALU entry point. Each mnemonic/width pair gets its
// own code; the BCD adjusts only exist in one width.
type OpCode uint8

// Instruction is one concrete invocation: an opcode, its operands and the
// flags it reads. B is ignored by single-operand ops.
type Instruction struct {
	Op OpCode
	A  uint16
	B  uint16
	F  cpu.Flags
}

const (
	ADD8 OpCode = iota
	ADD16
	ADC8
	ADC16
	SUB8
	SUB16
	SBB8
	SBB16
	INC8
	INC16
	DEC8
	DEC16
	NEG8
	NEG16
	CMP8
	CMP16
	AAA
	AAS
	DAA
	DAS

	OpCodeCount
)

// Operands returns how many value operands op takes (1 or 2).
func Operands(op OpCode) int {
	return Catalog[op].Operands
}

// HasResult is false for CMP, which only produces flags.
func HasResult(op OpCode) bool {
	return op != CMP8 && op != CMP16
}

// IsAdjust reports whether op is one of the BCD adjust instructions.
func IsAdjust(op OpCode) bool {
	return op >= AAA && op <= DAS
}

// WidthOf returns the operand width of op.
func WidthOf(op OpCode) cpu.Width {
	return Catalog[op].Width
}
