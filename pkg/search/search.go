package search

import (
	"runtime"
	"sort"
	"time"

	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
	"github.com/oisee/alu8088/pkg/result"
	"github.com/sirupsen/logrus"
)

// DefaultMaxExhaustive is the largest input space swept exhaustively.
// Bigger spaces (the 16-bit two-operand ops) are sampled.
const DefaultMaxExhaustive = 1 << 20

// DefaultSamples is the per-op sample count when an op must be sampled and
// Config.Samples is zero.
const DefaultSamples = 1 << 16

// Config holds generation and verification settings.
type Config struct {
	Ops           []inst.OpCode // ops to generate; all when empty
	NumWorkers    int           // parallel workers (defaults to NumCPU)
	Samples       int           // random inputs per op; 0 sweeps exhaustively where feasible
	MaxExhaustive uint64        // largest space swept exhaustively (defaults to DefaultMaxExhaustive)
	Seed          uint64        // sampling seed
	Dead          DeadMask      // flags ignored by Verify
	Options       cpu.Options
	Verbose       bool
	Log           *logrus.Entry
}

// Report summarises a verification run.
type Report struct {
	Checked    int64
	Failed     int64
	Mismatches []Mismatch
	Elapsed    time.Duration
}

func (cfg *Config) defaults() {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = runtime.NumCPU()
	}
	if cfg.MaxExhaustive == 0 {
		cfg.MaxExhaustive = DefaultMaxExhaustive
	}
	if len(cfg.Ops) == 0 {
		cfg.Ops = inst.AllOps()
	}
	if cfg.Log == nil {
		cfg.Log = logrus.NewEntry(logrus.StandardLogger())
	}
}

// Run generates reference records for every op in cfg.
func Run(cfg Config) *result.Table {
	cfg.defaults()
	pool := NewWorkerPool(cfg.NumWorkers, cfg.Options, cfg.Log)
	startTime := time.Now()

	tasks := collectTasks(cfg)
	if cfg.Verbose {
		cfg.Log.WithFields(logrus.Fields{
			"ops":     len(cfg.Ops),
			"tasks":   len(tasks),
			"workers": cfg.NumWorkers,
		}).Info("generating vectors")
	}

	pool.RunGenerate(tasks)

	if cfg.Verbose {
		checked, _ := pool.Stats()
		cfg.Log.WithFields(logrus.Fields{
			"records": checked,
			"elapsed": time.Since(startTime).Round(time.Millisecond),
		}).Info("generation done")
	}
	return pool.Results
}

// collectTasks splits each op into chunks of its first operand, or a single
// sampling task when the space is too large or sampling was requested.
func collectTasks(cfg Config) []GenerateTask {
	var tasks []GenerateTask
	for _, op := range cfg.Ops {
		samples := cfg.Samples
		if samples == 0 && SpaceSize(op) > cfg.MaxExhaustive {
			samples = DefaultSamples
		}
		if samples > 0 {
			tasks = append(tasks, GenerateTask{Op: op, Samples: samples, Seed: cfg.Seed})
			continue
		}
		n := uint32(inst.WidthOf(op).Mask()) + 1
		chunk := n / uint32(cfg.NumWorkers)
		if chunk < 16 {
			chunk = 16
		}
		for lo := uint32(0); lo < n; lo += chunk {
			tasks = append(tasks, GenerateTask{Op: op, Lo: lo, Hi: min(lo+chunk, n)})
		}
	}
	return tasks
}

// Verify checks recs against the engine.
func Verify(cfg Config, recs []result.Record) Report {
	cfg.defaults()
	pool := NewWorkerPool(cfg.NumWorkers, cfg.Options, cfg.Log)
	startTime := time.Now()

	if cfg.Verbose {
		cfg.Log.WithFields(logrus.Fields{
			"records": len(recs),
			"mask":    cfg.Dead.String(),
			"workers": cfg.NumWorkers,
		}).Info("verifying vectors")
	}

	pool.RunVerify(recs, cfg.Dead)

	checked, failed := pool.Stats()
	mismatches := pool.Mismatches()
	sort.Slice(mismatches, func(i, j int) bool {
		a, b := mismatches[i].Record, mismatches[j].Record
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		if a.A != b.A {
			return a.A < b.A
		}
		return a.B < b.B
	})
	rep := Report{
		Checked:    checked,
		Failed:     failed,
		Mismatches: mismatches,
		Elapsed:    time.Since(startTime),
	}
	if cfg.Verbose {
		cfg.Log.WithFields(logrus.Fields{
			"checked": rep.Checked,
			"failed":  rep.Failed,
			"elapsed": rep.Elapsed.Round(time.Millisecond),
		}).Info("verification done")
	}
	return rep
}
