package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinChunkSize = 8

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	assert.Equal(t, int64(n), counter)
}

func TestForRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 5}

	n := 103
	hits := make([]int32, n)
	ForRange(n, func(s, e int) {
		for i := s; i < e; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	}, cfg)

	for i, h := range hits {
		require.Equal(t, int32(1), h, "index %d", i)
	}
}

func TestFor_Sequential(t *testing.T) {
	var calls int
	ForRange(100, func(s, e int) {
		calls++
		assert.Equal(t, 0, s)
		assert.Equal(t, 100, e)
	}, Sequential())

	assert.Equal(t, 1, calls)
}

func TestFor_SmallChunk(t *testing.T) {
	// Small work units fall back to a single chunk.
	cfg := DefaultConfig()

	var calls int64
	ForRange(cfg.MinChunkSize-1, func(_, _ int) {
		atomic.AddInt64(&calls, 1)
	}, cfg)

	assert.Equal(t, int64(1), calls)
}

func TestFor_Empty(t *testing.T) {
	For(0, func(_ int) {
		t.Fatal("must not be called")
	}, DefaultConfig())
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 1 << 16

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(j int) {
				atomic.AddInt64(&sum, int64(j))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(j int) {
				atomic.AddInt64(&sum, int64(j))
			}, Sequential())
		}
	})
}

func TestForRange_PanicReachesCaller(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1}
	errBoom := errors.New("boom")

	var done int64
	err := exceptions.TryCatch[error](func() {
		For(16, func(i int) {
			if i == 5 {
				panic(errors.WithStack(errBoom))
			}
			atomic.AddInt64(&done, 1)
		}, cfg)
	})

	require.ErrorIs(t, err, errBoom)
	// Chunks other than the failing one still run to completion.
	assert.GreaterOrEqual(t, atomic.LoadInt64(&done), int64(12))
}
