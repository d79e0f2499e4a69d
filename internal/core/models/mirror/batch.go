package mirror

import (
	"context"

	"github.com/zeusync/carball/internal/core/models"
	"github.com/zeusync/carball/pkg/concurrent"
)

// GameStatesToA mirrors many snapshots on at most workers goroutines. The
// result is in input order. It only fails when ctx is cancelled.
func GameStatesToA(ctx context.Context, states []models.GameState, workers int) ([]GameStateA, error) {
	return concurrent.Map(ctx, states, workers, func(ctx context.Context, s models.GameState) (GameStateA, error) {
		if err := ctx.Err(); err != nil {
			return GameStateA{}, err
		}
		return GameStateToA(s), nil
	})
}
