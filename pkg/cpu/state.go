package cpu

// State is the register state an ALU instruction reads and writes: the
// accumulator (AL or AX), the source operand and the FLAGS register.
// Cheap to copy by value.
type State struct {
	A, B uint16
	F    Flags
}

// Equal returns true if two states are identical.
func (s State) Equal(o State) bool {
	return s == o
}
