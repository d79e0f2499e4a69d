package concurrent

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers normalises a worker count: values below one mean GOMAXPROCS.
func Workers(n int) int {
	if n < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// ForEach runs action for every element with at most workers goroutines.
// It waits for all of them and returns the first error. The context passed
// to action is cancelled as soon as one action fails.
func ForEach[T any](ctx context.Context, in []T, workers int, action func(context.Context, int, T) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(Workers(workers))

	for idx, value := range in {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return action(ctx, idx, value)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// Map applies mapFn to each element in parallel, preserving order.
func Map[T any, R any](ctx context.Context, in []T, workers int, mapFn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(in))
	err := ForEach(ctx, in, workers, func(ctx context.Context, i int, v T) error {
		r, err := mapFn(ctx, v)
		if err != nil {
			return err
		}
		out[i] = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParallelMap is Map for functions that cannot fail.
func ParallelMap[T any, R any](in []T, workers int, mapFn func(T) R) []R {
	out, _ := Map(context.Background(), in, workers, func(_ context.Context, v T) (R, error) {
		return mapFn(v), nil
	})
	return out
}

// Batch splits in into chunks of batchSize and hands each chunk to action
// on its own goroutine.
func Batch[T any](ctx context.Context, in []T, batchSize int, action func(context.Context, []T) error) error {
	if batchSize < 1 {
		batchSize = len(in)
	}
	var chunks [][]T
	for idx := 0; idx < len(in); idx += batchSize {
		end := min(idx+batchSize, len(in))
		chunks = append(chunks, in[idx:end])
	}
	return ForEach(ctx, chunks, len(chunks), func(ctx context.Context, _ int, chunk []T) error {
		return action(ctx, chunk)
	})
}
