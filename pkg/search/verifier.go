package search

import (
	"fmt"

	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
	"github.com/oisee/alu8088/pkg/result"
)

// DeadMask selects which flags are ignored when comparing against a
// reference vector.
type DeadMask uint8

const (
	DeadNone      DeadMask = iota // compare every flag
	DeadUndefined                 // ignore flags the hardware leaves undefined for the op
	DeadAll                       // compare results only
)

// ParseDeadMask maps "none", "undefined" or "all" to a DeadMask.
func ParseDeadMask(s string) (DeadMask, error) {
	switch s {
	case "none":
		return DeadNone, nil
	case "undefined", "undef":
		return DeadUndefined, nil
	case "all":
		return DeadAll, nil
	}
	return 0, fmt.Errorf("unknown mask %q (want none, undefined or all)", s)
}

func (m DeadMask) String() string {
	switch m {
	case DeadUndefined:
		return "undefined"
	case DeadAll:
		return "all"
	}
	return "none"
}

// Flags returns the flags m ignores for op.
func (m DeadMask) Flags(op inst.OpCode) cpu.Flags {
	switch m {
	case DeadUndefined:
		return inst.Catalog[op].Undefined
	case DeadAll:
		return cpu.All
	}
	return 0
}

// Mismatch describes a record the engine disagrees with.
type Mismatch struct {
	Record    result.Record
	GotResult uint16
	GotFlags  cpu.Flags
	Reason    string
}

func (m Mismatch) String() string {
	instr, ok := m.Record.Instruction()
	if !ok {
		return fmt.Sprintf("%s: %s", m.Record.Op, m.Reason)
	}
	return fmt.Sprintf("%s: %s (want %04X %v, got %04X %v)",
		inst.Disassemble(instr), m.Reason,
		m.Record.Result, m.Record.FlagsOut, m.GotResult, m.GotFlags)
}

// Check re-evaluates rec and compares the result and every flag outside
// rec.Mask and the dead mask. ok is true when the engine agrees.
func Check(rec result.Record, dead DeadMask, opts cpu.Options) (Mismatch, bool) {
	instr, found := rec.Instruction()
	if !found {
		return Mismatch{Record: rec, Reason: "unknown op"}, false
	}
	r, f := inst.Eval(instr.Op, instr.A, instr.B, instr.F, opts)
	m := Mismatch{Record: rec, GotResult: r, GotFlags: f}

	if inst.HasResult(instr.Op) && r != rec.Result {
		m.Reason = "result differs"
		return m, false
	}
	ignore := rec.Mask | dead.Flags(instr.Op)
	if diff := (f ^ rec.FlagsOut) & cpu.All &^ ignore; diff != 0 {
		m.Reason = "flags differ: " + diff.String()
		return m, false
	}
	return m, true
}

// TestVectors are hand-picked inputs with known outcomes, used as a quick
// self-check before long sweeps.
var TestVectors = []result.Record{
	{Op: "ADD8", A: 0xFF, B: 0x01, Result: 0x00, FlagsOut: cpu.Carry | cpu.Zero | cpu.Parity | cpu.AuxiliaryCarry},
	{Op: "ADD8", A: 0x7F, B: 0x01, Result: 0x80, FlagsOut: cpu.Sign | cpu.Overflow | cpu.AuxiliaryCarry},
	{Op: "SUB8", A: 0x80, B: 0x7F, Result: 0x01, FlagsOut: cpu.AuxiliaryCarry | cpu.Overflow},
	{Op: "CMP8", A: 0x55, B: 0x55, FlagsOut: cpu.Zero | cpu.Parity},
	{Op: "INC16", A: 0xFFFF, Result: 0x0000, FlagsOut: cpu.Zero | cpu.Parity | cpu.AuxiliaryCarry},
	{Op: "NEG8", A: 0x00, Result: 0x00, FlagsOut: cpu.Zero | cpu.Parity},
	{Op: "DAA", A: 0xAE, FlagsIn: cpu.Sign, Result: 0x14, FlagsOut: cpu.AuxiliaryCarry | cpu.Parity | cpu.Carry, Mask: cpu.Overflow},
	{Op: "DAS", A: 0xEE, Result: 0x88, FlagsOut: cpu.Sign | cpu.AuxiliaryCarry | cpu.Parity | cpu.Carry},
	{Op: "AAA", A: 0x000B, Result: 0x0101, FlagsOut: cpu.Carry | cpu.AuxiliaryCarry},
	{Op: "AAS", A: 0x05C7, FlagsIn: cpu.Carry | cpu.Sign, Result: 0x0507},
}

// QuickCheck runs the engine against TestVectors and returns any mismatches.
func QuickCheck(opts cpu.Options) []Mismatch {
	var bad []Mismatch
	for _, rec := range TestVectors {
		if m, ok := Check(rec, DeadNone, opts); !ok {
			bad = append(bad, m)
		}
	}
	return bad
}
