// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled    bool // Whether jobs run concurrently.
	NumWorkers int  // Maximum concurrent jobs; ≤ 0 means runtime.NumCPU().
}

// DefaultConfig returns one worker per CPU.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
	}
}

// For executes f(i) for i in [0, n).
//
// Jobs are handed to workers one at a time, so long and short jobs balance
// out. f must be safe to call from several goroutines at once. Falls back to
// sequential execution if parallelism is disabled or there is one job.
func For(n int, f func(i int), cfg Config) {
	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, n)
	if !cfg.Enabled || workers < 2 {
		for i := range n {
			f(i)
		}
		return
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				f(i)
			}
		}()
	}
	for i := range n {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
}

// ForGrid executes f(r, c) for every cell of a rows × cols grid.
func ForGrid(rows, cols int, f func(r, c int), cfg Config) {
	if cols <= 0 {
		return
	}
	For(rows*cols, func(k int) {
		f(k/cols, k%cols)
	}, cfg)
}
