package dataloader

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Card count by SetID
// ---------------------------------------------------------------------------

func newCardCountBatchFn(repo cardCountRepo) dataloader.BatchFunc[uuid.UUID, int] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[int] {
		counts, err := repo.CountCardsBySetIDs(ctx, keys)
		if err != nil {
			return errorResults[int](len(keys), err)
		}
		return mapResults(keys, counts, zero[int])
	}
}

// ---------------------------------------------------------------------------
// High score by SetID
// ---------------------------------------------------------------------------

// The high score of a set is the larger of the stored register and the best
// completed session, matching what the session recorder reports.
func newHighScoreBatchFn(sets setScoreRepo, sessions sessionScoreRepo) dataloader.BatchFunc[uuid.UUID, int] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[int] {
		userID, ok := ctxutil.UserIDFromCtx(ctx)
		if !ok {
			return errorResults[int](len(keys), domain.ErrUnauthorized)
		}

		var stored, best map[uuid.UUID]int
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			stored, err = sets.HighScoresBySetIDs(gctx, userID, keys)
			if err != nil {
				return fmt.Errorf("stored high scores: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			best, err = sessions.BestScoresBySetIDs(gctx, userID, keys)
			if err != nil {
				return fmt.Errorf("best sessions: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			return errorResults[int](len(keys), err)
		}

		merged := make(map[uuid.UUID]int, len(keys))
		for _, k := range keys {
			merged[k] = max(stored[k], best[k])
		}
		return mapResults(keys, merged, zero[int])
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

func zero[T any]() T {
	var v T
	return v
}
