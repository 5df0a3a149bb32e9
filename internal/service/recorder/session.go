package recorder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

// CreateSession stores a fresh session for the caller on setID.
func (s *Service) CreateSession(ctx context.Context, setID uuid.UUID) (*domain.QuizSession, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	now := s.now()
	session, err := s.sessions.Insert(ctx, &domain.QuizSession{
		ID:        uuid.New(),
		UserID:    userID,
		SetID:     setID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Snapshot writes the progress of a session. Writing the same snapshot twice
// leaves the row as after the first write.
func (s *Service) Snapshot(ctx context.Context, snap domain.SessionSnapshot) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := s.sessions.Update(ctx, userID, snap); err != nil {
		return domain.WriteFailed("update session", err)
	}
	return nil
}

// VerifyCompletion re-reads the session until it reflects snap or the
// configured number of reads is used up.
func (s *Service) VerifyCompletion(ctx context.Context, snap domain.SessionSnapshot) bool {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return false
	}

	for attempt := 1; attempt <= s.cfg.VerifyAttempts; attempt++ {
		session, err := s.sessions.GetByID(ctx, userID, snap.SessionID)
		if err == nil && session.Reflects(snap) {
			return true
		}
		if err != nil {
			s.log.WarnContext(ctx, "session re-read failed",
				slog.String("session_id", snap.SessionID.String()),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()),
			)
		}
		if attempt < s.cfg.VerifyAttempts && !sleep(ctx, s.cfg.VerifyBackoff) {
			return false
		}
	}
	return false
}

// Complete stores the completed snapshot and, once the write is confirmed,
// reconciles the high score with the session's correct answers. A write
// error is followed by verifying reads; if none confirms the row the high
// score is left alone and the result is unconfirmed.
func (s *Service) Complete(ctx context.Context, setID uuid.UUID, snap domain.SessionSnapshot, cardCount int) (domain.CompletionResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.CompletionResult{}, domain.ErrUnauthorized
	}
	key := scoreKey{userID: userID, setID: setID}

	if err := s.Snapshot(ctx, snap); err != nil {
		s.log.WarnContext(ctx, "completion write failed, verifying",
			slog.String("session_id", snap.SessionID.String()),
			slog.String("error", err.Error()),
		)
		if !s.VerifyCompletion(ctx, snap) {
			return domain.CompletionResult{HighScore: s.cached(key)}, nil
		}
	}

	s.publish(ctx, domain.Event{
		Type:           domain.EventQuizCompleted,
		SessionID:      snap.SessionID,
		SetID:          setID,
		UserID:         userID,
		CorrectAnswers: snap.CorrectAnswers,
		CardCount:      cardCount,
		OccurredAt:     s.now(),
	})

	hs, raised, err := s.ReconcileHighScore(ctx, setID, snap.CorrectAnswers)
	if err != nil {
		// The completed row is stored, so the best completed session already
		// carries the score; the register catches up on a later reconcile.
		s.log.WarnContext(ctx, "high score not reconciled",
			slog.String("set_id", setID.String()),
			slog.String("error", err.Error()),
		)
		hs = s.remember(key, snap.CorrectAnswers)
	}
	return domain.CompletionResult{Confirmed: true, HighScore: hs, Raised: raised}, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
