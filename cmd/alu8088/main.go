package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
	"github.com/oisee/alu8088/pkg/result"
	"github.com/oisee/alu8088/pkg/search"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func main() {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "alu8088",
		Short:        "8088 arithmetic and BCD flag engine",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(os.Stderr)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// exec command
	var in, register cpu.Flags
	var daaOverflow bool

	execCmd := &cobra.Command{
		Use:   "exec OP A [B]",
		Short: "Run one instruction and show its result and flags",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			instr, err := parseInstruction(args)
			if err != nil {
				return err
			}
			instr.F = in
			regSet := cmd.Flags().Changed("register")
			if regSet && !cmd.Flags().Changed("flags") {
				instr.F = register
			}
			opts := cpu.Options{DecimalAdjustOverflow: daaOverflow}
			f := printExec(os.Stdout, instr, opts)
			if regSet {
				merged := cpu.Merge(register, f, inst.Affected(instr.Op, opts))
				fmt.Printf("register  %04Xh -> %04Xh  %s\n", uint16(register), uint16(merged), renderFlags(merged))
			}
			return nil
		},
	}
	execCmd.Flags().Var(flagsValue{&in}, "flags", "Input flags, e.g. CF|AF")
	execCmd.Flags().Var(flagsValue{&register}, "register", "FLAGS register to merge the outcome into")
	execCmd.Flags().BoolVar(&daaOverflow, "daa-overflow", false, "DAA sets OF on a sign change")

	// ops command
	opsCmd := &cobra.Command{
		Use:   "ops",
		Short: "List the instruction catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printCatalog(os.Stdout)
		},
	}

	// table command
	var opNames []string
	var output string
	var samples int
	var seed uint64
	var numWorkers int
	var tableOverflow bool

	tableCmd := &cobra.Command{
		Use:   "table",
		Short: "Generate reference vectors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := parseOps(opNames)
			if err != nil {
				return err
			}
			cfg := search.Config{
				Ops:        ops,
				NumWorkers: numWorkers,
				Samples:    samples,
				Seed:       seed,
				Options:    cpu.Options{DecimalAdjustOverflow: tableOverflow},
				Verbose:    verbose,
				Log:        logrus.WithField("cmd", "table"),
			}
			recs := search.Run(cfg).Records()

			if output == "" {
				return result.WriteJSON(os.Stdout, recs)
			}
			if err := result.WriteFile(output, recs); err != nil {
				return fmt.Errorf("write vectors: %w", err)
			}
			fmt.Printf("Written %d records to %s\n", len(recs), output)
			return nil
		},
	}
	tableCmd.Flags().StringSliceVar(&opNames, "op", nil, "Ops to generate (repeatable; default all)")
	tableCmd.Flags().StringVarP(&output, "output", "o", "", "Output JSON file path (.gz compresses; default stdout)")
	tableCmd.Flags().IntVar(&samples, "sample", 0, "Random inputs per op (0 = exhaustive where feasible)")
	tableCmd.Flags().Uint64Var(&seed, "seed", 1, "Sampling seed")
	tableCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	tableCmd.Flags().BoolVar(&tableOverflow, "daa-overflow", false, "DAA sets OF on a sign change")

	// verify command
	var mask string
	var verifyOverflow bool

	verifyCmd := &cobra.Command{
		Use:   "verify FILE",
		Short: "Re-check reference vectors against the engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dead, err := search.ParseDeadMask(mask)
			if err != nil {
				return err
			}
			recs, err := result.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("load vectors: %w", err)
			}
			cfg := search.Config{
				NumWorkers: numWorkers,
				Dead:       dead,
				Options:    cpu.Options{DecimalAdjustOverflow: verifyOverflow},
				Verbose:    verbose,
				Log:        logrus.WithField("cmd", "verify"),
			}

			fmt.Printf("Verifying %d records (mask %s)...\n", len(recs), dead)
			rep := search.Verify(cfg, recs)
			for i, m := range rep.Mismatches {
				if i == 20 && !verbose {
					fmt.Printf("  ... %d more\n", len(rep.Mismatches)-i)
					break
				}
				fmt.Printf("  %s\n", m)
			}
			fmt.Printf("Checked %d, failed %d (%s)\n", rep.Checked, rep.Failed, rep.Elapsed.Round(time.Millisecond))
			if rep.Failed > 0 {
				return fmt.Errorf("%d mismatches", rep.Failed)
			}
			return nil
		},
	}
	verifyCmd.Flags().StringVar(&mask, "mask", "none", "Flags to ignore: none, undefined or all")
	verifyCmd.Flags().IntVar(&numWorkers, "workers", 0, "Number of workers (0 = NumCPU)")
	verifyCmd.Flags().BoolVar(&verifyOverflow, "daa-overflow", false, "DAA sets OF on a sign change")

	// selftest command
	selftestCmd := &cobra.Command{
		Use:   "selftest",
		Short: "Run the engine against built-in known cases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bad := search.QuickCheck(cpu.Options{})
			for _, m := range bad {
				fmt.Printf("  FAIL %s\n", m)
			}
			if len(bad) > 0 {
				return fmt.Errorf("%d of %d known cases failed", len(bad), len(search.TestVectors))
			}
			fmt.Printf("All %d known cases pass.\n", len(search.TestVectors))
			return nil
		},
	}

	rootCmd.AddCommand(execCmd, opsCmd, tableCmd, verifyCmd, selftestCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// flagsValue adapts cpu.ParseFlags to a command-line flag.
type flagsValue struct{ f *cpu.Flags }

var _ pflag.Value = flagsValue{}

func (v flagsValue) String() string {
	if v.f == nil {
		return "-"
	}
	return v.f.String()
}

func (v flagsValue) Set(s string) error {
	f, err := cpu.ParseFlags(s)
	if err != nil {
		return err
	}
	*v.f = f
	return nil
}

func (v flagsValue) Type() string { return "flags" }

// parseInstruction turns "OP A [B]" into an instruction, checking operand
// count and range against the op's width.
func parseInstruction(args []string) (inst.Instruction, error) {
	op, ok := inst.Lookup(args[0])
	if !ok {
		return inst.Instruction{}, fmt.Errorf("unknown op: %s", args[0])
	}
	if n := inst.Operands(op); len(args)-1 != n {
		return inst.Instruction{}, fmt.Errorf("%s takes %d operand(s), got %d", op, n, len(args)-1)
	}
	mask := inst.WidthOf(op).Mask()
	var vals [2]uint16
	for i, s := range args[1:] {
		v, err := parseImmediate(s)
		if err != nil {
			return inst.Instruction{}, fmt.Errorf("operand %q: %w", s, err)
		}
		if v > uint64(mask) {
			return inst.Instruction{}, fmt.Errorf("operand %q does not fit %s", s, inst.WidthOf(op))
		}
		vals[i] = uint16(v)
	}
	return inst.Instruction{Op: op, A: vals[0], B: vals[1]}, nil
}

// parseImmediate accepts 0xFF, FFh or decimal.
func parseImmediate(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	upper := strings.ToUpper(s)
	if strings.HasPrefix(upper, "0X") {
		return strconv.ParseUint(s[2:], 16, 16)
	}
	if strings.HasSuffix(upper, "H") {
		return strconv.ParseUint(s[:len(s)-1], 16, 16)
	}
	return strconv.ParseUint(s, 10, 16)
}

func parseOps(names []string) ([]inst.OpCode, error) {
	var ops []inst.OpCode
	for _, name := range names {
		if strings.EqualFold(name, "all") {
			return inst.AllOps(), nil
		}
		op, ok := inst.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown op: %s", name)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

var flagOrder = []cpu.Flags{
	cpu.Overflow, cpu.Direction, cpu.Interrupt, cpu.Trap,
	cpu.Sign, cpu.Zero, cpu.AuxiliaryCarry, cpu.Parity, cpu.Carry,
}

// renderFlags shows set flags highlighted and clear ones dimmed, high bit first.
func renderFlags(f cpu.Flags) string {
	on := color.New(color.FgCyan, color.Bold)
	off := color.New(color.Faint)
	parts := make([]string, 0, len(flagOrder))
	for _, fl := range flagOrder {
		if f.Has(fl) {
			parts = append(parts, on.Sprint(fl.String()))
		} else {
			parts = append(parts, off.Sprint(strings.ToLower(fl.String())))
		}
	}
	return strings.Join(parts, " ")
}

func printExec(w io.Writer, instr inst.Instruction, opts cpu.Options) cpu.Flags {
	info := &inst.Catalog[instr.Op]
	r, f := inst.Eval(instr.Op, instr.A, instr.B, instr.F, opts)

	fmt.Fprintf(w, "%s\n", inst.Disassemble(instr))
	if inst.HasResult(instr.Op) {
		fmt.Fprintf(w, "result    %s\n", formatValue(info.Width, r))
	} else {
		fmt.Fprintf(w, "result    -\n")
	}
	fmt.Fprintf(w, "flags     %-20s %s\n", f, renderFlags(f))
	if info.Undefined != 0 {
		fmt.Fprintf(w, "undefined %s\n", info.Undefined)
	}
	return f
}

func formatValue(w cpu.Width, v uint16) string {
	if w == cpu.Byte {
		return fmt.Sprintf("%02Xh", v)
	}
	return fmt.Sprintf("%04Xh", v)
}

func printCatalog(w io.Writer) {
	fmt.Fprintf(w, "%-6s %-5s %-8s %-6s %-16s %-12s %s\n",
		"OP", "WIDTH", "BYTES", "CLOCKS", "DEFINES", "READS", "UNDEFINED")
	for _, op := range inst.AllOps() {
		info := &inst.Catalog[op]
		var enc strings.Builder
		for i, b := range inst.Encoding(op) {
			if i > 0 {
				enc.WriteByte(' ')
			}
			fmt.Fprintf(&enc, "%02X", b)
		}
		fmt.Fprintf(w, "%-6s %-5s %-8s %-6d %-16s %-12s %s\n",
			info.Mnemonic, info.Width, enc.String(), info.Clocks,
			info.Defines, info.Reads, info.Undefined)
	}
}
