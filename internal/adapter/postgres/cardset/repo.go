// Package cardset implements the flashcard set and card repository using
// PostgreSQL. Queries are built with squirrel.
package cardset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/flashquiz/internal/adapter/postgres"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

const (
	setsTable  = "flashcard_sets"
	cardsTable = "flashcards"
)

var (
	psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	setColumns  = []string{"id", "user_id", "title", "prompt", "high_score", "created_at", "updated_at"}
	cardColumns = []string{"id", "set_id", "question", "answer", "difficulty", "created_at"}
)

// Repo provides set and card persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new set repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Card store
// ---------------------------------------------------------------------------

// GetCardsForSet returns every card of setID in stored order. NULL text
// columns come back as empty strings; filtering malformed cards is left to
// the caller. A set without cards yields an empty slice.
func (r *Repo) GetCardsForSet(ctx context.Context, setID uuid.UUID) ([]domain.Card, error) {
	query, args, err := psql.
		Select(cardColumns...).
		From(cardsTable).
		Where(squirrel.Eq{"set_id": setID}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build cards query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "flashcard_set", setID)
	}
	defer rows.Close()

	cards := make([]domain.Card, 0)
	for rows.Next() {
		var (
			c                domain.Card
			question, answer sql.NullString
			difficulty       string
		)
		if err := rows.Scan(&c.ID, &c.SetID, &question, &answer, &difficulty, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Question = question.String
		c.Answer = answer.String
		c.Difficulty = domain.ParseDifficulty(difficulty)
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "flashcard_set", setID)
	}
	return cards, nil
}

// GetSetMetadata returns the title and stored high score of setID. A
// non-nil userID restricts the lookup to that user's sets, so another
// user's set reads as not found. Anonymous callers (uuid.Nil) only get
// local-only attempts and are not scoped.
func (r *Repo) GetSetMetadata(ctx context.Context, userID, setID uuid.UUID) (domain.SetMetadata, error) {
	where := squirrel.Eq{"id": setID}
	if userID != uuid.Nil {
		where["user_id"] = userID
	}
	query, args, err := psql.
		Select("title", "high_score").
		From(setsTable).
		Where(where).
		ToSql()
	if err != nil {
		return domain.SetMetadata{}, fmt.Errorf("build metadata query: %w", err)
	}

	var meta domain.SetMetadata
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&meta.Title, &meta.HighScore)
	if err != nil {
		return domain.SetMetadata{}, postgres.MapError(err, "flashcard_set", setID)
	}
	return meta, nil
}

// ---------------------------------------------------------------------------
// Sets
// ---------------------------------------------------------------------------

// Create inserts a set and returns the stored row.
func (r *Repo) Create(ctx context.Context, set *domain.Set) (*domain.Set, error) {
	query, args, err := psql.
		Insert(setsTable).
		Columns(setColumns...).
		Values(set.ID, set.UserID, set.Title, set.Prompt, set.HighScore, set.CreatedAt, set.UpdatedAt).
		Suffix("RETURNING " + strings.Join(setColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert set: %w", err)
	}

	created, err := scanSet(postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, postgres.MapError(err, "flashcard_set", set.ID)
	}
	return &created, nil
}

// ListByUser returns the sets owned by userID, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Set, error) {
	query, args, err := psql.
		Select(setColumns...).
		From(setsTable).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sets: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	defer rows.Close()

	sets := make([]domain.Set, 0)
	for rows.Next() {
		s, err := scanSet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan set: %w", err)
		}
		sets = append(sets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}

// Delete removes a set owned by userID. Cards and sessions go with it.
func (r *Repo) Delete(ctx context.Context, userID, setID uuid.UUID) error {
	query, args, err := psql.
		Delete(setsTable).
		Where(squirrel.Eq{"id": setID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete set: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "flashcard_set", setID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("flashcard_set %s: %w", setID, domain.ErrNotFound)
	}
	return nil
}

// CreateBatch inserts cards in a single statement.
func (r *Repo) CreateBatch(ctx context.Context, cards []domain.Card) error {
	if len(cards) == 0 {
		return nil
	}

	insert := psql.Insert(cardsTable).Columns(cardColumns...)
	for _, c := range cards {
		insert = insert.Values(c.ID, c.SetID, c.Question, c.Answer, string(c.Difficulty), c.CreatedAt)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build insert cards: %w", err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "flashcard_set", cards[0].SetID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// High score register
// ---------------------------------------------------------------------------

// GetHighScore returns the stored high score of a set owned by userID.
func (r *Repo) GetHighScore(ctx context.Context, userID, setID uuid.UUID) (int, error) {
	query, args, err := psql.
		Select("high_score").
		From(setsTable).
		Where(squirrel.Eq{"id": setID, "user_id": userID}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build high score query: %w", err)
	}

	var hs int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&hs); err != nil {
		return 0, postgres.MapError(err, "flashcard_set", setID)
	}
	return hs, nil
}

// UpdateHighScore raises the stored high score to score when score is
// larger. It reports false when the row was not raised, either because the
// stored value is already at least score or the set is not owned by userID.
func (r *Repo) UpdateHighScore(ctx context.Context, userID, setID uuid.UUID, score int, at time.Time) (bool, error) {
	query, args, err := psql.
		Update(setsTable).
		Set("high_score", score).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": setID, "user_id": userID}).
		Where(squirrel.Lt{"high_score": score}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update high score: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "flashcard_set", setID)
	}
	return tag.RowsAffected() == 1, nil
}

// ---------------------------------------------------------------------------
// Batch lookups
// ---------------------------------------------------------------------------

// CountCardsBySetIDs returns the card count per set. Sets without cards are
// absent from the result.
func (r *Repo) CountCardsBySetIDs(ctx context.Context, setIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(setIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	query, args, err := psql.
		Select("set_id", "count(*)").
		From(cardsTable).
		Where(squirrel.Eq{"set_id": setIDs}).
		GroupBy("set_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count cards: %w", err)
	}
	return r.countsByID(ctx, query, args)
}

// HighScoresBySetIDs returns the stored high score per set owned by userID.
func (r *Repo) HighScoresBySetIDs(ctx context.Context, userID uuid.UUID, setIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	if len(setIDs) == 0 {
		return map[uuid.UUID]int{}, nil
	}

	query, args, err := psql.
		Select("id", "high_score").
		From(setsTable).
		Where(squirrel.Eq{"id": setIDs, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build high scores: %w", err)
	}
	return r.countsByID(ctx, query, args)
}

func (r *Repo) countsByID(ctx context.Context, query string, args []any) (map[uuid.UUID]int, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query by set ids: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			id uuid.UUID
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan by set ids: %w", err)
		}
		out[id] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query by set ids: %w", err)
	}
	return out, nil
}

func scanSet(row pgx.Row) (domain.Set, error) {
	var s domain.Set
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Prompt, &s.HighScore, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}
