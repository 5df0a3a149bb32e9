package catalog

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type setRepo interface {
	Create(ctx context.Context, set *domain.Set) (*domain.Set, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Set, error)
	Delete(ctx context.Context, userID, setID uuid.UUID) error
}

type cardRepo interface {
	CreateBatch(ctx context.Context, cards []domain.Card) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// MaxCardsPerSet bounds how many cards a saved set may carry.
const MaxCardsPerSet = 200

// Service manages the caller's flashcard sets.
type Service struct {
	sets  setRepo
	cards cardRepo
	tx    txManager
	log   *slog.Logger
	now   func() time.Time
}

// NewService creates a new Catalog service.
func NewService(log *slog.Logger, sets setRepo, cards cardRepo, tx txManager) *Service {
	return &Service{
		sets:  sets,
		cards: cards,
		tx:    tx,
		log:   log.With("service", "catalog"),
		now:   func() time.Time { return time.Now().UTC() },
	}
}
