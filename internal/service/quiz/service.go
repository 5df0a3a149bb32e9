package quiz

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type cardStore interface {
	GetCardsForSet(ctx context.Context, setID uuid.UUID) ([]domain.Card, error)
	GetSetMetadata(ctx context.Context, userID, setID uuid.UUID) (domain.SetMetadata, error)
}

type sessionRecorder interface {
	CreateSession(ctx context.Context, setID uuid.UUID) (*domain.QuizSession, error)
	Snapshot(ctx context.Context, snap domain.SessionSnapshot) error
	Complete(ctx context.Context, setID uuid.UUID, snap domain.SessionSnapshot, cardCount int) (domain.CompletionResult, error)
	FetchHighScore(ctx context.Context, setID uuid.UUID) (int, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service drives quiz attempts: it loads cards, applies commands and writes
// progress through the session recorder.
type Service struct {
	cards    cardStore
	recorder sessionRecorder
	attempts *Registry
	validate *validator.Validate
	log      *slog.Logger
	cfg      domain.QuizConfig
	now      func() time.Time
}

// NewService creates a new Quiz service.
func NewService(
	log *slog.Logger,
	cards cardStore,
	recorder sessionRecorder,
	cfg domain.QuizConfig,
) *Service {
	return &Service{
		cards:    cards,
		recorder: recorder,
		attempts: NewRegistry(cfg.MaxAttempts),
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.With("service", "quiz"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// lookup loads the caller's attempt, locks it and marks it as used.
// The caller must unlock a.mu.
func (s *Service) lookup(ctx context.Context, attemptID uuid.UUID) (*Attempt, error) {
	userID, _ := ctxutil.UserIDFromCtx(ctx)
	a, err := s.attempts.Get(attemptID, userID)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.touch(s.now())
	return a, nil
}

// View returns the current read model of an attempt.
func (s *Service) View(ctx context.Context, attemptID uuid.UUID) (View, error) {
	a, err := s.lookup(ctx, attemptID)
	if err != nil {
		return View{}, err
	}
	defer a.mu.Unlock()
	return a.view(), nil
}

// RunSweeper evicts idle attempts until ctx is cancelled. Eviction behaves
// like Back: the last snapshot stays as it was.
func (s *Service) RunSweeper(ctx context.Context, interval time.Duration) {
	if s.cfg.AttemptIdleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	expired := s.attempts.Expire(s.now().Add(-s.cfg.AttemptIdleTTL))
	for _, a := range expired {
		a.mu.Lock()
		a.stop()
		a.mu.Unlock()
	}
	if len(expired) > 0 {
		s.log.InfoContext(ctx, "idle attempts evicted", slog.Int("count", len(expired)))
	}
}

// Close ends every live attempt as Back would. Snapshots still pending are
// dropped, so callers should stop serving commands first.
func (s *Service) Close() {
	all := s.attempts.Drain()
	for _, a := range all {
		a.mu.Lock()
		a.stop()
		a.mu.Unlock()
	}
	s.log.Info("quiz stopped", slog.Int("attempts", len(all)))
}
