package search

import (
	"math/rand/v2"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/oisee/alu8088/pkg/cpu"
	"github.com/oisee/alu8088/pkg/inst"
	"github.com/oisee/alu8088/pkg/result"
	"github.com/sirupsen/logrus"
)

// WorkerPool manages parallel generate and verify workers.
type WorkerPool struct {
	NumWorkers int
	Options    cpu.Options
	Results    *result.Table
	Log        *logrus.Entry

	mu         sync.Mutex
	mismatches []Mismatch
	checked    atomic.Int64
	failed     atomic.Int64
}

// NewWorkerPool creates a pool with the given number of workers.
func NewWorkerPool(numWorkers int, opts cpu.Options, log *logrus.Entry) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &WorkerPool{
		NumWorkers: numWorkers,
		Options:    opts,
		Results:    result.NewTable(),
		Log:        log,
	}
}

// GenerateTask is a unit of vector generation: either the inputs of Op
// whose first operand lies in [Lo, Hi), or Samples random inputs.
type GenerateTask struct {
	Op      inst.OpCode
	Lo, Hi  uint32
	Samples int
	Seed    uint64
}

// Stats returns the number of inputs processed and failures seen.
func (wp *WorkerPool) Stats() (checked, failed int64) {
	return wp.checked.Load(), wp.failed.Load()
}

// Mismatches returns a copy of the mismatches collected by RunVerify.
func (wp *WorkerPool) Mismatches() []Mismatch {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	out := make([]Mismatch, len(wp.mismatches))
	copy(out, wp.mismatches)
	return out
}

// RunGenerate distributes generation tasks across workers.
func (wp *WorkerPool) RunGenerate(tasks []GenerateTask) {
	ch := make(chan GenerateTask, len(tasks))
	for _, t := range tasks {
		ch <- t
	}
	close(ch)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range ch {
				wp.generate(task)
			}
		}()
	}
	wg.Wait()
}

func (wp *WorkerPool) generate(task GenerateTask) {
	emit := func(instr inst.Instruction) bool {
		wp.checked.Add(1)
		wp.Results.Add(result.NewRecord(instr, wp.Options))
		return true
	}
	if task.Samples > 0 {
		rng := rand.New(rand.NewPCG(task.Seed, uint64(task.Op)))
		Sample(rng, task.Op, task.Samples, emit)
	} else {
		EnumerateRange(task.Op, task.Lo, task.Hi, emit)
	}
	wp.Log.WithFields(logrus.Fields{
		"op":      task.Op.String(),
		"lo":      task.Lo,
		"hi":      task.Hi,
		"samples": task.Samples,
	}).Debug("task done")
}

// RunVerify checks records across workers, collecting mismatches.
func (wp *WorkerPool) RunVerify(recs []result.Record, dead DeadMask) {
	ch := make(chan result.Record, wp.NumWorkers*64)

	var wg sync.WaitGroup
	for i := 0; i < wp.NumWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range ch {
				wp.checked.Add(1)
				m, ok := Check(rec, dead, wp.Options)
				if ok {
					continue
				}
				wp.failed.Add(1)
				wp.mu.Lock()
				wp.mismatches = append(wp.mismatches, m)
				wp.mu.Unlock()
				wp.Log.WithField("op", rec.Op).Debug(m.String())
			}
		}()
	}
	for _, rec := range recs {
		ch <- rec
	}
	close(ch)
	wg.Wait()
}
