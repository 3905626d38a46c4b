// Package parallel fans batched linear-algebra work out over goroutines.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool `yaml:"enabled"`        // Whether parallel execution is enabled.
	NumWorkers   int  `yaml:"num_workers"`    // Number of worker goroutines to use.
	MinChunkSize int  `yaml:"min_chunk_size"` // Minimum batch items before fanning out.
}

// DefaultConfig returns sensible defaults based on CPU count.
// Batch items are whole matrix factorizations, so small batches already pay
// for a goroutine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4,
	}
}

func (cfg Config) sequential(n int) bool {
	return !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if cfg.sequential(n) {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n + cfg.NumWorkers - 1) / cfg.NumWorkers

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForErr executes f(i) for i in [0, n) and returns the first error.
// At most cfg.NumWorkers calls run at once.
func ForErr(n int, f func(i int) error, cfg Config) error {
	if cfg.sequential(n) {
		for i := 0; i < n; i++ {
			if err := f(i); err != nil {
				return err
			}
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(cfg.NumWorkers)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return f(i)
		})
	}
	return g.Wait()
}
