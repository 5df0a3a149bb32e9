// Package quizsession implements the quiz session repository using PostgreSQL.
package quizsession

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashquiz/internal/adapter/postgres"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// Repo provides quiz session persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new quiz session repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const sessionColumns = `id, user_id, set_id, current_card_index, correct_answers,
       total_attempts, completed, created_at, updated_at`

const insertSQL = `
INSERT INTO quiz_sessions (` + sessionColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + sessionColumns

const getByIDSQL = `
SELECT ` + sessionColumns + `
FROM quiz_sessions
WHERE id = $1 AND user_id = $2`

const updateSQL = `
UPDATE quiz_sessions
SET current_card_index = $3,
    correct_answers    = $4,
    total_attempts     = $5,
    completed          = $6,
    updated_at         = $7
WHERE id = $1 AND user_id = $2`

const bestCompletedSQL = `
SELECT max(correct_answers)
FROM quiz_sessions
WHERE user_id = $1 AND set_id = $2 AND completed`

const bestBySetIDsSQL = `
SELECT set_id, max(correct_answers)
FROM quiz_sessions
WHERE user_id = $1 AND set_id = ANY($2::uuid[]) AND completed
GROUP BY set_id`

// Insert stores a new session and returns the stored row.
func (r *Repo) Insert(ctx context.Context, s *domain.QuizSession) (*domain.QuizSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	row := querier.QueryRow(ctx, insertSQL,
		s.ID, s.UserID, s.SetID, s.CurrentCardIndex, s.CorrectAnswers,
		s.TotalAttempts, s.Completed, s.CreatedAt, s.UpdatedAt,
	)
	created, err := scanSession(row)
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", s.ID)
	}
	return created, nil
}

// GetByID returns a session owned by userID.
func (r *Repo) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.QuizSession, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	s, err := scanSession(querier.QueryRow(ctx, getByIDSQL, sessionID, userID))
	if err != nil {
		return nil, postgres.MapError(err, "quiz_session", sessionID)
	}
	return s, nil
}

// Update overwrites the progress columns of a session owned by userID.
func (r *Repo) Update(ctx context.Context, userID uuid.UUID, snap domain.SessionSnapshot) error {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	tag, err := querier.Exec(ctx, updateSQL,
		snap.SessionID, userID, snap.CurrentCardIndex, snap.CorrectAnswers,
		snap.TotalAttempts, snap.Completed, snap.UpdatedAt,
	)
	if err != nil {
		return postgres.MapError(err, "quiz_session", snap.SessionID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("quiz_session %s: %w", snap.SessionID, domain.ErrNotFound)
	}
	return nil
}

// BestCompleted returns the highest correct-answer count among the user's
// completed sessions on setID, or ErrNotFound when there are none.
func (r *Repo) BestCompleted(ctx context.Context, userID, setID uuid.UUID) (int, error) {
	querier := postgres.QuerierFromCtx(ctx, r.pool)

	var best *int
	if err := querier.QueryRow(ctx, bestCompletedSQL, userID, setID).Scan(&best); err != nil {
		return 0, postgres.MapError(err, "quiz_session", setID)
	}
	if best == nil {
		return 0, fmt.Errorf("completed quiz_session for set %s: %w", setID, domain.ErrNotFound)
	}
	return *best, nil
}

// BestScoresBySetIDs returns BestCompleted for several sets at once. Sets
// without a completed session are absent from the result.
func (r *Repo) BestScoresBySetIDs(ctx context.Context, userID uuid.UUID, setIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	out := make(map[uuid.UUID]int, len(setIDs))
	if len(setIDs) == 0 {
		return out, nil
	}

	querier := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := querier.Query(ctx, bestBySetIDsSQL, userID, setIDs)
	if err != nil {
		return nil, fmt.Errorf("best scores by set ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			setID uuid.UUID
			best  int
		)
		if err := rows.Scan(&setID, &best); err != nil {
			return nil, fmt.Errorf("scan best score: %w", err)
		}
		out[setID] = best
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("best scores by set ids: %w", err)
	}
	return out, nil
}

func scanSession(row pgx.Row) (*domain.QuizSession, error) {
	var s domain.QuizSession
	err := row.Scan(
		&s.ID, &s.UserID, &s.SetID, &s.CurrentCardIndex, &s.CorrectAnswers,
		&s.TotalAttempts, &s.Completed, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
