package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
)

func init() {
	color.NoColor = true
}

func TestParseImmediate(t *testing.T) {
	tests := []struct {
		in   string
		want uint64
	}{
		{"0xFF", 0xFF},
		{"0X1234", 0x1234},
		{"7Fh", 0x7F},
		{"0AEh", 0xAE},
		{"255", 255},
		{" 65535 ", 0xFFFF},
	}
	for _, tc := range tests {
		got, err := parseImmediate(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("parseImmediate(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
	}
	for _, bad := range []string{"", "0x", "zz", "65536", "-1"} {
		if _, err := parseImmediate(bad); err == nil {
			t.Errorf("parseImmediate(%q): expected error", bad)
		}
	}
}

func TestParseInstruction(t *testing.T) {
	instr, err := parseInstruction([]string{"adc16", "0x8000", "1"})
	if err != nil || instr != (inst.Instruction{Op: inst.ADC16, A: 0x8000, B: 1}) {
		t.Errorf("parseInstruction = %+v, %v", instr, err)
	}
	instr, err = parseInstruction([]string{"aaa", "0105h"})
	if err != nil || instr.Op != inst.AAA || instr.A != 0x0105 {
		t.Errorf("parseInstruction(aaa) = %+v, %v", instr, err)
	}

	bad := [][]string{
		{"MUL", "1", "2"},
		{"ADD8", "1"},
		{"NEG8", "1", "2"},
		{"ADD8", "0x100", "1"},
		{"DAA", "0x1FF"},
	}
	for _, args := range bad {
		if _, err := parseInstruction(args); err == nil {
			t.Errorf("parseInstruction(%v): expected error", args)
		}
	}
}

func TestParseOps(t *testing.T) {
	ops, err := parseOps([]string{"daa", "INC8"})
	if err != nil || len(ops) != 2 || ops[0] != inst.DAA || ops[1] != inst.INC8 {
		t.Errorf("parseOps = %v, %v", ops, err)
	}
	if ops, err := parseOps([]string{"all"}); err != nil || len(ops) != int(inst.OpCodeCount) {
		t.Errorf("parseOps(all) = %d ops, %v", len(ops), err)
	}
	if ops, err := parseOps(nil); err != nil || ops != nil {
		t.Errorf("parseOps(nil) = %v, %v", ops, err)
	}
	if _, err := parseOps([]string{"XLAT"}); err == nil {
		t.Error("expected error for unknown op")
	}
}

func TestFlagsValue(t *testing.T) {
	var f cpu.Flags
	v := flagsValue{&f}
	if err := v.Set("cf,af"); err != nil {
		t.Fatal(err)
	}
	if f != cpu.Carry|cpu.AuxiliaryCarry || v.String() != "CF|AF" {
		t.Errorf("after Set: f=%v String=%q", f, v.String())
	}
	if err := v.Set("XF"); err == nil {
		t.Error("expected error for unknown flag")
	}
	if v.Type() != "flags" || (flagsValue{}).String() != "-" {
		t.Error("Type/zero String")
	}
}

func TestRenderFlags(t *testing.T) {
	got := renderFlags(cpu.Overflow | cpu.Carry)
	want := "OF df if tf sf zf af pf CF"
	if got != want {
		t.Errorf("renderFlags = %q, want %q", got, want)
	}
}

func TestPrintExec(t *testing.T) {
	var buf bytes.Buffer
	f := printExec(&buf, inst.Instruction{Op: inst.ADD8, A: 0x7F, B: 0x01}, cpu.Options{})
	if f != cpu.AuxiliaryCarry|cpu.Sign|cpu.Overflow {
		t.Errorf("flags = %v", f)
	}
	out := buf.String()
	for _, want := range []string{"ADD8 7Fh, 01h", "result    80h", "AF|SF|OF"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printExec(&buf, inst.Instruction{Op: inst.CMP16, A: 1, B: 1}, cpu.Options{})
	if !strings.Contains(buf.String(), "result    -") {
		t.Errorf("CMP output:\n%s", buf.String())
	}

	buf.Reset()
	printExec(&buf, inst.Instruction{Op: inst.AAA, A: 0x000B}, cpu.Options{})
	if !strings.Contains(buf.String(), "result    0101h") || !strings.Contains(buf.String(), "undefined") {
		t.Errorf("AAA output:\n%s", buf.String())
	}
}

func TestPrintCatalog(t *testing.T) {
	var buf bytes.Buffer
	printCatalog(&buf)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != int(inst.OpCodeCount)+1 {
		t.Fatalf("got %d lines, want %d", len(lines), inst.OpCodeCount+1)
	}
	if !strings.HasPrefix(lines[1], "ADD8   byte  00 C8") {
		t.Errorf("first row = %q", lines[1])
	}
}
