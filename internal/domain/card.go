package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card is a single generated question/answer pair. Cards are immutable once
// generated and belong to exactly one Set.
type Card struct {
	ID         uuid.UUID
	SetID      uuid.UUID
	Question   string
	Answer     string
	Difficulty Difficulty
	CreatedAt  time.Time
}

// Set is a named collection of cards tied to one learning prompt.
// HighScore only ever rises and is written by the session recorder.
type Set struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Prompt    string
	HighScore int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SetMetadata is the part of a Set the quiz needs before it starts.
type SetMetadata struct {
	Title     string
	HighScore int
}

// SetSummary is a row of the set listing.
type SetSummary struct {
	ID        uuid.UUID
	Title     string
	Prompt    string
	CardCount int
	HighScore int
	CreatedAt time.Time
}
