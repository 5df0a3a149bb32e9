package domain

import (
	"time"

	"github.com/google/uuid"
)

// QuizSession is the persisted record of one quiz attempt.
// A reset creates a new session; sessions are never deleted by the quiz.
type QuizSession struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SetID            uuid.UUID
	CurrentCardIndex int
	CorrectAnswers   int
	TotalAttempts    int
	Completed        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SessionSnapshot is the progress written to a session after every
// state-changing quiz command.
type SessionSnapshot struct {
	SessionID        uuid.UUID
	CurrentCardIndex int
	CorrectAnswers   int
	TotalAttempts    int
	Completed        bool
	UpdatedAt        time.Time
}

// NewSessionSnapshot builds a snapshot, deriving TotalAttempts from the
// per-card answered flags.
func NewSessionSnapshot(sessionID uuid.UUID, currentIndex, correctAnswers int, answered []bool, completed bool, at time.Time) SessionSnapshot {
	total := 0
	for _, a := range answered {
		if a {
			total++
		}
	}
	return SessionSnapshot{
		SessionID:        sessionID,
		CurrentCardIndex: currentIndex,
		CorrectAnswers:   correctAnswers,
		TotalAttempts:    total,
		Completed:        completed,
		UpdatedAt:        at,
	}
}

// Reflects reports whether the persisted session carries the snapshot's
// counters and completion flag. The index is not compared; it may be moved
// by navigation without changing the result.
func (s *QuizSession) Reflects(snap SessionSnapshot) bool {
	return s.ID == snap.SessionID &&
		s.CorrectAnswers == snap.CorrectAnswers &&
		s.TotalAttempts == snap.TotalAttempts &&
		s.Completed == snap.Completed
}

// QuizConfig holds quiz runtime parameters (pure domain type).
type QuizConfig struct {
	SnapshotTimeout   time.Duration
	CompletionTimeout time.Duration
	VerifyAttempts    int
	VerifyBackoff     time.Duration
	AttemptIdleTTL    time.Duration
	MaxAttempts       int
}

// CompletionResult is the outcome of persisting a completed attempt.
// Confirmed is false when neither the write nor a verifying read succeeded;
// HighScore is then the last known value and was not reconciled.
type CompletionResult struct {
	Confirmed bool
	HighScore int
	Raised    bool
}
