package quiz

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

// cardFields are the fields a card needs to be studied.
type cardFields struct {
	Question   string            `validate:"required"`
	Answer     string            `validate:"required"`
	Difficulty domain.Difficulty `validate:"required,oneof=easy medium hard"`
}

// Start loads a set and opens a new attempt on it. A set without usable
// cards yields an attempt in the empty phase.
func (s *Service) Start(ctx context.Context, setID uuid.UUID) (View, error) {
	if setID == uuid.Nil {
		return View{}, domain.NewValidationError("set_id", "required")
	}

	userID, authenticated := ctxutil.UserIDFromCtx(ctx)

	var (
		cards []domain.Card
		meta  domain.SetMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = s.cards.GetCardsForSet(gctx, setID)
		if errors.Is(err, domain.ErrNotFound) {
			cards = nil
			return nil
		}
		return err
	})
	g.Go(func() error {
		var err error
		meta, err = s.cards.GetSetMetadata(gctx, userID, setID)
		return err
	})
	if err := g.Wait(); err != nil {
		return View{}, fmt.Errorf("load set %s: %w", setID, err)
	}

	a := &Attempt{
		id:        uuid.New(),
		ownerID:   userID,
		setID:     setID,
		title:     meta.Title,
		cards:     s.wellFormed(ctx, setID, cards),
		localOnly: !authenticated,
		lastSeen:  s.now(),
	}
	a.progress = NewProgress().Loaded(len(a.cards))

	// The slot is taken before a session row is written, so a full
	// registry leaves nothing behind in storage.
	if err := s.attempts.Add(a); err != nil {
		return View{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.progress.Phase() == PhaseActive {
		s.openSession(ctx, a)
		a.highScore = s.initialHighScore(ctx, a, meta)
	}

	s.log.InfoContext(ctx, "attempt started",
		slog.String("attempt_id", a.id.String()),
		slog.String("set_id", setID.String()),
		slog.Int("cards", len(a.cards)),
		slog.Bool("local_only", a.localOnly),
	)
	return a.view(), nil
}

// wellFormed drops cards missing a question, an answer or a known
// difficulty. Order of the remaining cards is kept.
func (s *Service) wellFormed(ctx context.Context, setID uuid.UUID, cards []domain.Card) []domain.Card {
	out := make([]domain.Card, 0, len(cards))
	for _, c := range cards {
		err := s.validate.Struct(cardFields{
			Question:   c.Question,
			Answer:     c.Answer,
			Difficulty: c.Difficulty,
		})
		if err != nil {
			s.log.WarnContext(ctx, "card skipped",
				slog.String("set_id", setID.String()),
				slog.String("card_id", c.ID.String()),
				slog.String("error", fmt.Errorf("%w: %w", domain.ErrMalformedCard, err).Error()),
			)
			continue
		}
		out = append(out, c)
	}
	return out
}

// openSession creates the persisted session for a fresh pass. On failure the
// attempt continues in local-only mode.
func (s *Service) openSession(ctx context.Context, a *Attempt) {
	a.session = nil
	if a.ownerID == uuid.Nil {
		a.localOnly = true
		return
	}

	sess, err := s.recorder.CreateSession(ctx, a.setID)
	if err != nil {
		a.localOnly = true
		s.log.WarnContext(ctx, "session not created, continuing local-only",
			slog.String("attempt_id", a.id.String()),
			slog.String("set_id", a.setID.String()),
			slog.String("error", err.Error()),
		)
		return
	}

	a.localOnly = false
	a.session = sess
	a.writer = newSnapshotWriter(
		ctxutil.Detach(ctx),
		s.recorder.Snapshot,
		s.cfg.SnapshotTimeout,
		s.log.With("attempt_id", a.id.String()),
	)
}

func (s *Service) initialHighScore(ctx context.Context, a *Attempt, meta domain.SetMetadata) int {
	if a.ownerID == uuid.Nil {
		return 0
	}
	hs, err := s.recorder.FetchHighScore(ctx, a.setID)
	if err != nil {
		s.log.WarnContext(ctx, "high score not fetched",
			slog.String("set_id", a.setID.String()),
			slog.String("error", err.Error()),
		)
		return meta.HighScore
	}
	return hs
}
