package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
	"golang.org/x/sync/errgroup"
)

// FetchHighScore returns the caller's high score on setID: the larger of the
// stored register and the best completed session, 0 when neither exists.
// Concurrent calls for the same user and set share one read, and the result
// is never lower than a value this service has already confirmed.
func (s *Service) FetchHighScore(ctx context.Context, setID uuid.UUID) (int, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	key := scoreKey{userID: userID, setID: setID}

	v, err, _ := s.flight.Do(key.String(), func() (any, error) {
		return s.load(ctx, key)
	})
	if err != nil {
		return 0, err
	}
	return s.remember(key, v.(int)), nil
}

func (s *Service) load(ctx context.Context, key scoreKey) (int, error) {
	var stored, best int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := s.sets.GetHighScore(gctx, key.userID, key.setID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("get set high score: %w", err)
		}
		stored = v
		return nil
	})
	g.Go(func() error {
		v, err := s.sessions.BestCompleted(gctx, key.userID, key.setID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("best completed session: %w", err)
		}
		best = v
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return max(stored, best), nil
}

// ReconcileHighScore raises the stored high score to candidate if candidate
// is larger and returns the resulting high score. Calls with the same or a
// lower candidate change nothing.
//
// The candidate is compared with the stored register only. The completed
// session carrying it is already written when this runs, so a read that
// includes completed sessions would always match the candidate.
func (s *Service) ReconcileHighScore(ctx context.Context, setID uuid.UUID, candidate int) (int, bool, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return 0, false, domain.ErrUnauthorized
	}
	key := scoreKey{userID: userID, setID: setID}

	stored, err := s.sets.GetHighScore(ctx, userID, setID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		stored = 0
	case err != nil:
		return s.cached(key), false, fmt.Errorf("get set high score: %w", err)
	}
	if candidate <= stored {
		return s.remember(key, stored), false, nil
	}

	raised, err := s.sets.UpdateHighScore(ctx, userID, setID, candidate, s.now())
	if err != nil {
		return s.remember(key, stored), false, domain.WriteFailed("update high score", err)
	}

	if !raised {
		// A concurrent writer got there first or the set is not ours;
		// re-read so a higher stored value shows up.
		hs := s.cached(key)
		if fresh, err := s.FetchHighScore(ctx, setID); err == nil {
			hs = fresh
		}
		return hs, false, nil
	}
	hs := s.remember(key, candidate)

	s.log.InfoContext(ctx, "high score raised",
		slog.String("set_id", setID.String()),
		slog.Int("previous", stored),
		slog.Int("high_score", candidate),
	)
	s.publish(ctx, domain.Event{
		Type:              domain.EventHighScoreRaised,
		SetID:             setID,
		UserID:            userID,
		PreviousHighScore: stored,
		HighScore:         candidate,
		OccurredAt:        s.now(),
	})
	return hs, true, nil
}
