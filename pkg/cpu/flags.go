package cpu

import (
	"fmt"
	"strconv"
	"strings"
)

// Flags is a set of 8086 status bits, laid out as in the FLAGS register.
type Flags uint16

// 8086 flag bit positions in the FLAGS register.
const (
	Carry          Flags = 1 << 0  // CF
	Parity         Flags = 1 << 2  // PF
	AuxiliaryCarry Flags = 1 << 4  // AF
	Zero           Flags = 1 << 6  // ZF
	Sign           Flags = 1 << 7  // SF
	Trap           Flags = 1 << 8  // TF
	Interrupt      Flags = 1 << 9  // IF
	Direction      Flags = 1 << 10 // DF
	Overflow       Flags = 1 << 11 // OF

	NoFlags Flags = 0

	// Status is every flag this package computes.
	Status = Carry | Parity | AuxiliaryCarry | Zero | Sign | Overflow
	// Control is every flag this package passes through untouched.
	Control = Trap | Interrupt | Direction
	// All is the union of every named flag.
	All = Status | Control
)

// flagNames is in bit order so String output is stable.
var flagNames = []struct {
	f     Flags
	short string
	long  string
}{
	{Carry, "CF", "CARRY"},
	{Parity, "PF", "PARITY"},
	{AuxiliaryCarry, "AF", "AUXILIARY_CARRY"},
	{Zero, "ZF", "ZERO"},
	{Sign, "SF", "SIGN"},
	{Trap, "TF", "TRAP"},
	{Interrupt, "IF", "INTERRUPT"},
	{Direction, "DF", "DIRECTION"},
	{Overflow, "OF", "OVERFLOW"},
}

// ParityTable holds Parity for each byte value with an even number of set bits.
var ParityTable [256]Flags

func init() {
	for i := 0; i < 256; i++ {
		j := uint8(i)
		p := uint8(0)
		for k := 0; k < 8; k++ {
			p ^= j & 1
			j >>= 1
		}
		if p == 0 {
			ParityTable[i] = Parity
		}
	}
}

// FromMap builds a flag set from explicit flag/bool pairs. Keys may be
// multi-bit sets; false entries are ignored.
func FromMap(m map[Flags]bool) Flags {
	var f Flags
	for k, on := range m {
		if on {
			f |= k
		}
	}
	return f
}

// Has reports whether every bit of o is present in f.
func (f Flags) Has(o Flags) bool { return f&o == o }

func (f Flags) Union(o Flags) Flags     { return f | o }
func (f Flags) Intersect(o Flags) Flags { return f & o }

// Diff returns the bits of f that are not in o.
func (f Flags) Diff(o Flags) Flags { return f &^ o }

func (f Flags) Equal(o Flags) bool { return f == o }

// String renders the set as "CF|ZF", or "-" when empty. Bits outside the
// named flags are appended as a hex literal.
func (f Flags) String() string {
	if f == 0 {
		return "-"
	}
	var parts []string
	for _, n := range flagNames {
		if f&n.f != 0 {
			parts = append(parts, n.short)
		}
	}
	if rest := f &^ All; rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%04X", uint16(rest)))
	}
	return strings.Join(parts, "|")
}

// ParseFlags is the inverse of String. It accepts short (CF) or long (CARRY)
// names separated by '|', ',' or spaces, and numeric literals such as 0x0801.
func ParseFlags(s string) (Flags, error) {
	var f Flags
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' ' || r == '\t'
	})
	for _, field := range fields {
		if field == "-" {
			continue
		}
		if field[0] >= '0' && field[0] <= '9' {
			v, err := strconv.ParseUint(field, 0, 16)
			if err != nil {
				return 0, fmt.Errorf("bad flag literal %q: %w", field, err)
			}
			f |= Flags(v)
			continue
		}
		up := strings.ToUpper(field)
		up = strings.TrimSuffix(up, "_FLAG")
		found := false
		for _, n := range flagNames {
			if up == n.short || up == n.long {
				f |= n.f
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown flag %q", field)
		}
	}
	return f, nil
}

// Merge folds an instruction's output into a FLAGS register: bits in
// affected are taken from out, everything else keeps its register value.
func Merge(register, out, affected Flags) Flags {
	return register.Diff(affected).Union(out.Intersect(affected))
}

// MarshalText encodes f in its String form.
func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText decodes the String form or a numeric literal.
func (f *Flags) UnmarshalText(b []byte) error {
	v, err := ParseFlags(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
