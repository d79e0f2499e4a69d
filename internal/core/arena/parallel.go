package arena

import (
	"context"

	"github.com/zeusync/carball/pkg/concurrent"
)

// StepAll advances independent arenas by ticks each, one goroutine per
// arena up to GOMAXPROCS. Arenas not yet started when ctx is cancelled are
// left untouched.
func StepAll(ctx context.Context, arenas []*Arena, ticks uint32) error {
	return concurrent.ForEach(ctx, arenas, 0, func(ctx context.Context, _ int, a *Arena) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.Step(ticks)
		return nil
	})
}
