// Package dataloader provides per-request DataLoaders that batch the per-set
// lookups of the set listing into single SQL calls. DataLoaders call
// repositories directly, bypassing the service layer. Authorization is
// ensured via SQL (WHERE user_id filters in repo queries).
package dataloader

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// ---------------------------------------------------------------------------
// Repository interfaces (consumer-defined)
// ---------------------------------------------------------------------------

type cardCountRepo interface {
	CountCardsBySetIDs(ctx context.Context, setIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type setScoreRepo interface {
	HighScoresBySetIDs(ctx context.Context, userID uuid.UUID, setIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

type sessionScoreRepo interface {
	BestScoresBySetIDs(ctx context.Context, userID uuid.UUID, setIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// Repos holds all repositories required by DataLoaders.
type Repos struct {
	Cards    cardCountRepo
	Sets     setScoreRepo
	Sessions sessionScoreRepo
}

// Loaders contains the per-request DataLoaders. Created per-request via
// NewLoaders.
type Loaders struct {
	CardCountBySetID *dataloader.Loader[uuid.UUID, int]
	HighScoreBySetID *dataloader.Loader[uuid.UUID, int]
}

// NewLoaders creates a new set of DataLoaders backed by the given repositories.
// Must be called per-request (loaders cache results within a single request).
func NewLoaders(repos *Repos) *Loaders {
	return &Loaders{
		CardCountBySetID: newLoader(newCardCountBatchFn(repos.Cards)),
		HighScoreBySetID: newLoader(newHighScoreBatchFn(repos.Sets, repos.Sessions)),
	}
}

func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](wait),
		dataloader.WithBatchCapacity[uuid.UUID, V](maxBatch),
	)
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

type contextKey string

const loadersKey contextKey = "dataloaders"

// WithLoaders stores Loaders in the context.
func WithLoaders(ctx context.Context, l *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, l)
}

// FromContext retrieves Loaders from the context.
// Panics if loaders are not present (indicates middleware misconfiguration).
func FromContext(ctx context.Context) *Loaders {
	l, ok := ctx.Value(loadersKey).(*Loaders)
	if !ok || l == nil {
		panic("dataloader: loaders not found in context, is the middleware configured?")
	}
	return l
}
