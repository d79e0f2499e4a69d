package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPreservesOrder(t *testing.T) {
	in := make([]int, 100)
	for i := range in {
		in[i] = i
	}
	out := ParallelMap(in, 4, func(v int) int { return v * v })
	require.Len(t, out, 100)
	for i, v := range out {
		assert.Equal(t, i*i, v)
	}
}

func TestForEachRespectsLimit(t *testing.T) {
	var running, peak atomic.Int32
	in := make([]struct{}, 50)

	err := ForEach(context.Background(), in, 3, func(context.Context, int, struct{}) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		running.Add(-1)
		return nil
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestMapReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Map(context.Background(), []int{1, 2, 3}, 2, func(_ context.Context, v int) (int, error) {
		if v == 2 {
			return 0, boom
		}
		return v, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestForEachCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := ForEach(ctx, []int{1, 2, 3}, 1, func(context.Context, int, int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}

func TestBatch(t *testing.T) {
	var total atomic.Int32
	err := Batch(context.Background(), []int{1, 2, 3, 4, 5}, 2, func(_ context.Context, chunk []int) error {
		assert.LessOrEqual(t, len(chunk), 2)
		for _, v := range chunk {
			total.Add(int32(v))
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(15), total.Load())
}

func TestWorkers(t *testing.T) {
	assert.Equal(t, 5, Workers(5))
	assert.GreaterOrEqual(t, Workers(0), 1)
}
