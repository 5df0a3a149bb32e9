package testhelper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashquiz/internal/domain"
)

// SeedSet inserts a flashcard set owned by userID and returns it.
func SeedSet(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) domain.Set {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	set := domain.Set{
		ID:        id,
		UserID:    userID,
		Title:     "set-" + id.String()[:8],
		Prompt:    "prompt for " + id.String()[:8],
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO flashcard_sets (id, user_id, title, prompt, high_score, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 0, $5, $6)`,
		set.ID, set.UserID, set.Title, set.Prompt, set.CreatedAt, set.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSet: %v", err)
	}
	return set
}

// SeedCards inserts n well-formed cards into setID with strictly increasing
// creation times, so their stored order matches the returned slice.
func SeedCards(t *testing.T, pool *pgxpool.Pool, setID uuid.UUID, n int) []domain.Card {
	t.Helper()

	base := time.Now().UTC().Truncate(time.Microsecond)
	cards := make([]domain.Card, n)
	for i := range cards {
		cards[i] = domain.Card{
			ID:         uuid.New(),
			SetID:      setID,
			Question:   fmt.Sprintf("question %d", i+1),
			Answer:     fmt.Sprintf("answer %d", i+1),
			Difficulty: domain.DifficultyMedium,
			CreatedAt:  base.Add(time.Duration(i) * time.Millisecond),
		}
		_, err := pool.Exec(context.Background(),
			`INSERT INTO flashcards (id, set_id, question, answer, difficulty, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			cards[i].ID, cards[i].SetID, cards[i].Question, cards[i].Answer,
			string(cards[i].Difficulty), cards[i].CreatedAt,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedCards[%d]: %v", i, err)
		}
	}
	return cards
}

// SeedMalformedCard inserts a card with a NULL answer, as a broken generator
// run would leave behind.
func SeedMalformedCard(t *testing.T, pool *pgxpool.Pool, setID uuid.UUID, at time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO flashcards (id, set_id, question, answer, difficulty, created_at)
		 VALUES ($1, $2, 'orphan question', NULL, '', $3)`,
		id, setID, at,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMalformedCard: %v", err)
	}
	return id
}

// SeedSession inserts a quiz session with the given counters.
func SeedSession(t *testing.T, pool *pgxpool.Pool, userID, setID uuid.UUID, correct, total int, completed bool) domain.QuizSession {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	s := domain.QuizSession{
		ID:             uuid.New(),
		UserID:         userID,
		SetID:          setID,
		CorrectAnswers: correct,
		TotalAttempts:  total,
		Completed:      completed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	_, err := pool.Exec(context.Background(),
		`INSERT INTO quiz_sessions (id, user_id, set_id, current_card_index, correct_answers, total_attempts, completed, created_at, updated_at)
		 VALUES ($1, $2, $3, 0, $4, $5, $6, $7, $8)`,
		s.ID, s.UserID, s.SetID, s.CorrectAnswers, s.TotalAttempts, s.Completed, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSession: %v", err)
	}
	return s
}
