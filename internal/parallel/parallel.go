// Package parallel splits index ranges across goroutines for the matrix kernels.
package parallel

import (
	"runtime"
	"sync"

	"github.com/gomlx/exceptions"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4096,
	}
}

// Sequential returns a config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// ForRange calls f(start, end) over disjoint chunks covering [0, n).
// Chunks run concurrently unless parallelism is disabled or n is too small,
// in which case f(0, n) is called once on the calling goroutine.
//
// A panic in any chunk is recovered on its worker and the first one is
// re-raised on the calling goroutine once every chunk has returned.
func ForRange(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	var (
		wg        sync.WaitGroup
		once      sync.Once
		exception any
	)
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if ex := exceptions.Try(func() { f(s, e) }); ex != nil {
				once.Do(func() { exception = ex })
			}
		}(start, end)
	}
	wg.Wait()
	if exception != nil {
		panic(exception)
	}
}

// For executes f(i) for i in [0, n), chunked as in ForRange.
func For(n int, f func(i int), cfg Config) {
	ForRange(n, func(s, e int) {
		for i := s; i < e; i++ {
			f(i)
		}
	}, cfg)
}
