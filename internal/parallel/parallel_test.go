package parallel

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()

	var counter int64
	n := 1000

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != 100 {
		t.Errorf("Expected 100, got %d", counter)
	}
}

func TestFor_SmallChunk(t *testing.T) {
	// Test that small work units fall back to sequential.
	cfg := DefaultConfig()

	var counter int64
	n := cfg.MinChunkSize - 1

	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)

	if counter != int64(n) {
		t.Errorf("Expected %d, got %d", n, counter)
	}
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		cfgSeq := cfg
		cfgSeq.Enabled = false
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			}, cfgSeq)
		}
	})
}

func TestForErr(t *testing.T) {
	for _, cfg := range []Config{DefaultConfig(), {Enabled: true, NumWorkers: 4, MinChunkSize: 1}, {Enabled: false}} {
		results := make([]int, 50)
		err := ForErr(len(results), func(i int) error {
			results[i] = i * i
			return nil
		}, cfg)
		require.NoError(t, err)
		for i, v := range results {
			assert.Equal(t, i*i, v)
		}
	}
}

func TestForErr_CollectsAllFailures(t *testing.T) {
	errOdd := errors.New("odd")
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 1}

	var ran int64
	err := ForErr(10, func(i int) error {
		atomic.AddInt64(&ran, 1)
		if i%2 == 1 {
			return fmt.Errorf("item %d: %w", i, errOdd)
		}
		return nil
	}, cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, errOdd)
	assert.Equal(t, int64(10), ran)

	errs := multierr.Errors(err)
	require.Len(t, errs, 5)
	assert.EqualError(t, errs[0], "item 1: odd")
	assert.EqualError(t, errs[4], "item 9: odd")
}
