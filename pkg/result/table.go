package result

import (
	"sort"
	"sync"

	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
)

// Record is one reference vector: an instruction, its inputs, and the
// result and flags it must produce. Flags in Mask are not compared.
type Record struct {
	Op       string    `json:"op"`
	A        uint16    `json:"a"`
	B        uint16    `json:"b,omitempty"`
	FlagsIn  cpu.Flags `json:"flags_in"`
	Result   uint16    `json:"result"`
	FlagsOut cpu.Flags `json:"flags_out"`
	Mask     cpu.Flags `json:"mask,omitempty"`
}

// NewRecord evaluates instr and captures the outcome as a record.
func NewRecord(instr inst.Instruction, opts cpu.Options) Record {
	r, f := inst.Eval(instr.Op, instr.A, instr.B, instr.F, opts)
	return Record{
		Op:       inst.Catalog[instr.Op].Mnemonic,
		A:        instr.A,
		B:        instr.B,
		FlagsIn:  instr.F,
		Result:   r,
		FlagsOut: f,
	}
}

// Instruction resolves the record's mnemonic. ok is false for unknown ops.
func (r Record) Instruction() (inst.Instruction, bool) {
	op, found := inst.Lookup(r.Op)
	if !found {
		return inst.Instruction{}, false
	}
	return inst.Instruction{Op: op, A: r.A, B: r.B, F: r.FlagsIn}, true
}

// Table stores records. Safe for concurrent Add.
type Table struct {
	mu      sync.Mutex
	records []Record
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{}
}

// Add inserts a record into the table.
func (t *Table) Add(r Record) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, r)
}

// Records returns a copy of all records, sorted by op, operands and input flags.
func (t *Table) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Record, len(t.records))
	copy(result, t.records)
	Sort(result)
	return result
}

// Len returns the number of records.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Sort orders records by op, A, B and input flags.
func Sort(recs []Record) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		if a.A != b.A {
			return a.A < b.A
		}
		if a.B != b.B {
			return a.B < b.B
		}
		return a.FlagsIn < b.FlagsIn
	})
}
