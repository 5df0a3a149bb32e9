package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

// CreateSet saves a generated set and its cards in one transaction. Cards
// get increasing creation times so their order is the order given.
func (s *Service) CreateSet(ctx context.Context, input CreateSetInput) (*domain.Set, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	set := &domain.Set{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(input.Title),
		Prompt:    input.Prompt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	cards := make([]domain.Card, len(input.Cards))
	for i, c := range input.Cards {
		cards[i] = domain.Card{
			ID:         uuid.New(),
			SetID:      set.ID,
			Question:   strings.TrimSpace(c.Question),
			Answer:     strings.TrimSpace(c.Answer),
			Difficulty: domain.ParseDifficulty(c.Difficulty),
			CreatedAt:  now.Add(time.Duration(i) * time.Microsecond),
		}
	}

	var created *domain.Set
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.sets.Create(ctx, set)
		if err != nil {
			return fmt.Errorf("create set: %w", err)
		}
		if len(cards) == 0 {
			return nil
		}
		if err := s.cards.CreateBatch(ctx, cards); err != nil {
			return fmt.Errorf("create cards: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "set created",
		slog.String("user_id", userID.String()),
		slog.String("set_id", created.ID.String()),
		slog.Int("cards", len(cards)),
	)
	return created, nil
}

// ListSets returns the caller's sets, newest first.
func (s *Service) ListSets(ctx context.Context) ([]domain.Set, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	sets, err := s.sets.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}

// DeleteSet removes a set with its cards and sessions.
func (s *Service) DeleteSet(ctx context.Context, input DeleteSetInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return err
	}

	if err := s.sets.Delete(ctx, userID, input.SetID); err != nil {
		return fmt.Errorf("delete set: %w", err)
	}

	s.log.InfoContext(ctx, "set deleted",
		slog.String("user_id", userID.String()),
		slog.String("set_id", input.SetID.String()),
	)
	return nil
}
