package domain

import (
	"time"

	"github.com/google/uuid"
)

// Event is emitted by the session recorder after a confirmed state change.
// Fields irrelevant to the event type are left zero.
type Event struct {
	Type              EventType
	SessionID         uuid.UUID
	SetID             uuid.UUID
	UserID            uuid.UUID
	CorrectAnswers    int
	CardCount         int
	PreviousHighScore int
	HighScore         int
	OccurredAt        time.Time
}
