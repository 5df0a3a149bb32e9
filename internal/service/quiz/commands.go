package quiz

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// Reveal shows the answer of the current card.
func (s *Service) Reveal(ctx context.Context, attemptID uuid.UUID) (View, error) {
	return s.display(ctx, attemptID, Progress.Reveal)
}

// Hide hides the answer of the current card.
func (s *Service) Hide(ctx context.Context, attemptID uuid.UUID) (View, error) {
	return s.display(ctx, attemptID, Progress.Hide)
}

// Toggle flips answer visibility.
func (s *Service) Toggle(ctx context.Context, attemptID uuid.UUID) (View, error) {
	return s.display(ctx, attemptID, Progress.Toggle)
}

func (s *Service) display(ctx context.Context, attemptID uuid.UUID, fn func(Progress) Progress) (View, error) {
	a, err := s.lookup(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	defer a.mu.Unlock()

	a.progress = fn(a.progress)
	return a.view(), nil
}

// GoTo moves to the card at index. A move to another card writes a snapshot.
func (s *Service) GoTo(ctx context.Context, attemptID uuid.UUID, index int) (View, error) {
	a, err := s.lookup(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	defer a.mu.Unlock()

	next, err := a.progress.GoTo(index)
	if err != nil {
		return View{}, err
	}
	moved := next.CurrentIndex() != a.progress.CurrentIndex()
	a.progress = next

	if moved && a.writer != nil {
		a.writer.Enqueue(a.snapshot(s.now()))
	}
	return a.view(), nil
}

// Answer records the outcome of the current card. Answering a card twice
// changes nothing. The answer that completes the pass waits for the
// completed session to be stored before the high score is reconciled.
func (s *Service) Answer(ctx context.Context, attemptID uuid.UUID, correct bool) (View, error) {
	a, err := s.lookup(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	defer a.mu.Unlock()

	next, changed := a.progress.Answer(correct)
	if !changed {
		return a.view(), nil
	}
	a.progress = next

	switch {
	case a.writer == nil:
		if next.Completed() {
			a.highScore = max(a.highScore, next.CorrectAnswers())
		}
	case next.Completed():
		s.complete(ctx, a)
	default:
		a.writer.Enqueue(a.snapshot(s.now()))
	}
	return a.view(), nil
}

func (s *Service) complete(ctx context.Context, a *Attempt) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.CompletionTimeout)
	defer cancel()

	snap := a.snapshot(s.now())
	var res domain.CompletionResult
	err := a.writer.Flush(func() error {
		var err error
		res, err = s.recorder.Complete(ctx, a.setID, snap, a.progress.CardCount())
		return err
	})

	if err != nil || !res.Confirmed {
		a.warning = WarningCompletionUnconfirmed
		attrs := []any{
			slog.String("attempt_id", a.id.String()),
			slog.String("session_id", snap.SessionID.String()),
			slog.Int("correct_answers", snap.CorrectAnswers),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		s.log.ErrorContext(ctx, "completion not confirmed, high score left unchanged", attrs...)
		return
	}

	a.warning = ""
	a.highScore = max(a.highScore, res.HighScore)
	s.log.InfoContext(ctx, "attempt completed",
		slog.String("attempt_id", a.id.String()),
		slog.String("session_id", snap.SessionID.String()),
		slog.Int("correct_answers", snap.CorrectAnswers),
		slog.Int("high_score", a.highScore),
		slog.Bool("raised", res.Raised),
	)
}

// Reset starts a new pass over the same cards with a new session. The high
// score shown so far is kept.
func (s *Service) Reset(ctx context.Context, attemptID uuid.UUID) (View, error) {
	a, err := s.lookup(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	defer a.mu.Unlock()

	a.stop()
	a.warning = ""
	a.progress = NewProgress().Loaded(len(a.cards))
	if a.progress.Phase() == PhaseActive {
		s.openSession(ctx, a)
	}
	return a.view(), nil
}

// Back ends the attempt. Nothing beyond the last snapshot is written.
func (s *Service) Back(ctx context.Context, attemptID uuid.UUID) error {
	a, err := s.lookup(ctx, attemptID)
	if err != nil {
		return err
	}
	defer a.mu.Unlock()

	s.attempts.Remove(a.id)
	a.stop()
	return nil
}
