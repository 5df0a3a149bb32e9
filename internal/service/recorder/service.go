package recorder

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type sessionRepo interface {
	Insert(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error)
	Update(ctx context.Context, userID uuid.UUID, snap domain.SessionSnapshot) error
	GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.QuizSession, error)
	BestCompleted(ctx context.Context, userID, setID uuid.UUID) (int, error)
}

type setRepo interface {
	GetHighScore(ctx context.Context, userID, setID uuid.UUID) (int, error)
	UpdateHighScore(ctx context.Context, userID, setID uuid.UUID, score int, at time.Time) (bool, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service records quiz sessions and keeps the per-user, per-set high score.
type Service struct {
	sessions sessionRepo
	sets     setRepo
	events   eventPublisher
	log      *slog.Logger
	cfg      domain.QuizConfig
	now      func() time.Time

	// flight joins concurrent high-score reads of the same user and set.
	flight singleflight.Group

	mu    sync.Mutex
	known map[scoreKey]int
}

type scoreKey struct {
	userID uuid.UUID
	setID  uuid.UUID
}

func (k scoreKey) String() string { return k.userID.String() + ":" + k.setID.String() }

// NewService creates a new Recorder service.
func NewService(
	log *slog.Logger,
	sessions sessionRepo,
	sets setRepo,
	events eventPublisher,
	cfg domain.QuizConfig,
) *Service {
	if cfg.VerifyAttempts < 1 {
		cfg.VerifyAttempts = 1
	}
	return &Service{
		sessions: sessions,
		sets:     sets,
		events:   events,
		log:      log.With("service", "recorder"),
		cfg:      cfg,
		now:      time.Now,
		known:    make(map[scoreKey]int),
	}
}

// remember raises the cached high score to at least score and returns the
// cached value. The cache never goes down.
func (s *Service) remember(key scoreKey, score int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.known[key]; ok && cur >= score {
		return cur
	}
	s.known[key] = score
	return score
}

func (s *Service) cached(key scoreKey) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known[key]
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.WarnContext(ctx, "event not published",
			slog.String("type", event.Type.String()),
			slog.String("set_id", event.SetID.String()),
			slog.String("error", err.Error()),
		)
	}
}
