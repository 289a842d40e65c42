package inst

import (
	"strings"

	"github.com/oisee/alu8088/pkg/cpu"
)

// Info holds static metadata for an opcode.
type Info struct {
	Mnemonic  string    // e.g. "ADD8"
	Name      string    // assembler mnemonic, e.g. "ADD"
	Width     cpu.Width // operand width; AAA/AAS work on AX, DAA/DAS on AL
	Operands  int       // value operands (1 or 2)
	Reads     cpu.Flags // input flags the instruction depends on
	Defines   cpu.Flags // flags written with a defined value
	Undefined cpu.Flags // flags real hardware leaves undefined
	Opcode    uint8     // register form, e.g. 0x00 for ADD r/m8, r8
	Group     int8      // ModRM reg extension for group opcodes, -1 otherwise
	Clocks    int       // 8088 clocks, register operands
}

// Catalog maps each OpCode to its Info.
var Catalog = [OpCodeCount]Info{
	ADD8:  {"ADD8", "ADD", cpu.Byte, 2, 0, cpu.Status, 0, 0x00, -1, 3},
	ADD16: {"ADD16", "ADD", cpu.Word, 2, 0, cpu.Status, 0, 0x01, -1, 3},
	ADC8:  {"ADC8", "ADC", cpu.Byte, 2, cpu.Carry, cpu.Status, 0, 0x10, -1, 3},
	ADC16: {"ADC16", "ADC", cpu.Word, 2, cpu.Carry, cpu.Status, 0, 0x11, -1, 3},
	SUB8:  {"SUB8", "SUB", cpu.Byte, 2, 0, cpu.Status, 0, 0x28, -1, 3},
	SUB16: {"SUB16", "SUB", cpu.Word, 2, 0, cpu.Status, 0, 0x29, -1, 3},
	SBB8:  {"SBB8", "SBB", cpu.Byte, 2, cpu.Carry, cpu.Status, 0, 0x18, -1, 3},
	SBB16: {"SBB16", "SBB", cpu.Word, 2, cpu.Carry, cpu.Status, 0, 0x19, -1, 3},
	INC8:  {"INC8", "INC", cpu.Byte, 1, cpu.Carry, cpu.Status &^ cpu.Carry, 0, 0xFE, 0, 3},
	INC16: {"INC16", "INC", cpu.Word, 1, cpu.Carry, cpu.Status &^ cpu.Carry, 0, 0xFF, 0, 3},
	DEC8:  {"DEC8", "DEC", cpu.Byte, 1, cpu.Carry, cpu.Status &^ cpu.Carry, 0, 0xFE, 1, 3},
	DEC16: {"DEC16", "DEC", cpu.Word, 1, cpu.Carry, cpu.Status &^ cpu.Carry, 0, 0xFF, 1, 3},
	NEG8:  {"NEG8", "NEG", cpu.Byte, 1, 0, cpu.Status, 0, 0xF6, 3, 3},
	NEG16: {"NEG16", "NEG", cpu.Word, 1, 0, cpu.Status, 0, 0xF7, 3, 3},
	CMP8:  {"CMP8", "CMP", cpu.Byte, 2, 0, cpu.Status, 0, 0x38, -1, 3},
	CMP16: {"CMP16", "CMP", cpu.Word, 2, 0, cpu.Status, 0, 0x39, -1, 3},
	AAA: {"AAA", "AAA", cpu.Word, 1, cpu.AuxiliaryCarry,
		cpu.AuxiliaryCarry | cpu.Carry,
		cpu.Overflow | cpu.Sign | cpu.Zero | cpu.Parity, 0x37, -1, 4},
	AAS: {"AAS", "AAS", cpu.Word, 1, cpu.AuxiliaryCarry,
		cpu.AuxiliaryCarry | cpu.Carry,
		cpu.Overflow | cpu.Sign | cpu.Zero | cpu.Parity, 0x3F, -1, 4},
	DAA: {"DAA", "DAA", cpu.Byte, 1, cpu.AuxiliaryCarry | cpu.Carry,
		cpu.Status &^ cpu.Overflow, cpu.Overflow, 0x27, -1, 4},
	DAS: {"DAS", "DAS", cpu.Byte, 1, cpu.AuxiliaryCarry | cpu.Carry,
		cpu.Status &^ cpu.Overflow, cpu.Overflow, 0x2F, -1, 4},
}

// AllOps returns all valid OpCode values (for enumeration).
func AllOps() []OpCode {
	ops := make([]OpCode, 0, OpCodeCount)
	for i := OpCode(0); i < OpCodeCount; i++ {
		ops = append(ops, i)
	}
	return ops
}

// TwoOperandOps returns the opcodes that take two value operands.
func TwoOperandOps() []OpCode {
	ops := make([]OpCode, 0)
	for i := OpCode(0); i < OpCodeCount; i++ {
		if Operands(i) == 2 {
			ops = append(ops, i)
		}
	}
	return ops
}

// FlagReadingOps returns the opcodes whose outcome depends on input flags.
func FlagReadingOps() []OpCode {
	ops := make([]OpCode, 0)
	for i := OpCode(0); i < OpCodeCount; i++ {
		if Catalog[i].Reads != 0 {
			ops = append(ops, i)
		}
	}
	return ops
}

// Lookup finds an opcode by mnemonic, case-insensitively. A bare assembler
// name such as "add" resolves to the byte form when both widths exist.
func Lookup(mnemonic string) (OpCode, bool) {
	m := strings.ToUpper(strings.TrimSpace(mnemonic))
	for op := OpCode(0); op < OpCodeCount; op++ {
		if Catalog[op].Mnemonic == m {
			return op, true
		}
	}
	for op := OpCode(0); op < OpCodeCount; op++ {
		if Catalog[op].Name == m {
			return op, true
		}
	}
	return 0, false
}

// Clocks returns the 8088 clock count of op with register operands.
func Clocks(op OpCode) int {
	return Catalog[op].Clocks
}

// Encoding returns the opcode bytes of the register form with AL/AX as the
// destination and CL/CX as the source.
func Encoding(op OpCode) []uint8 {
	info := &Catalog[op]
	switch {
	case IsAdjust(op):
		return []uint8{info.Opcode}
	case info.Group >= 0:
		return []uint8{info.Opcode, 0xC0 | uint8(info.Group)<<3}
	default:
		// mod=11, reg=CL/CX (1), rm=AL/AX (0)
		return []uint8{info.Opcode, 0xC8}
	}
}

func (op OpCode) String() string {
	if op >= OpCodeCount {
		return "OP?"
	}
	return Catalog[op].Mnemonic
}

// Disassemble returns text for an instruction, e.g. "ADD8 7Fh, 01h".
// Input flags are appended in brackets for ops that read them.
func Disassemble(instr Instruction) string {
	info := &Catalog[instr.Op]
	buf := make([]byte, 0, 32)
	buf = append(buf, info.Mnemonic...)
	buf = append(buf, ' ')
	buf = appendOperand(buf, info.Width, instr.A)
	if info.Operands == 2 {
		buf = append(buf, ", "...)
		buf = appendOperand(buf, info.Width, instr.B)
	}
	if info.Reads != 0 {
		buf = append(buf, " ["...)
		buf = append(buf, instr.F.Intersect(info.Reads).String()...)
		buf = append(buf, ']')
	}
	return string(buf)
}

func appendOperand(buf []byte, w cpu.Width, v uint16) []byte {
	if w == cpu.Byte {
		return appendHex8(buf, uint8(v))
	}
	return appendHex16(buf, v)
}

func appendHex8(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	if v >= 0xA0 {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>4], hex[v&0x0F], 'h')
	return buf
}

func appendHex16(buf []byte, v uint16) []byte {
	const hex = "0123456789ABCDEF"
	if v>>12 >= 0xA {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>12], hex[(v>>8)&0x0F], hex[(v>>4)&0x0F], hex[v&0x0F], 'h')
	return buf
}
