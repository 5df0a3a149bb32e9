package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// WarningCompletionUnconfirmed is shown when the completed session could not
// be confirmed in storage and the high score was left as it was.
const WarningCompletionUnconfirmed = "completion_unconfirmed"

// Attempt is one live study pass over a set. All fields are guarded by mu;
// commands on the same attempt are applied one at a time.
type Attempt struct {
	mu sync.Mutex

	id      uuid.UUID
	ownerID uuid.UUID // uuid.Nil for anonymous callers
	setID   uuid.UUID
	title   string
	cards   []domain.Card

	progress  Progress
	localOnly bool
	session   *domain.QuizSession // nil in local-only mode
	writer    *snapshotWriter     // nil in local-only mode
	highScore int
	warning   string

	lastSeen time.Time
}

// ID returns the attempt identifier.
func (a *Attempt) ID() uuid.UUID { return a.id }

// LocalOnly reports whether progress of this attempt is kept in memory only.
func (a *Attempt) LocalOnly() bool { return a.localOnly }

func (a *Attempt) snapshot(at time.Time) domain.SessionSnapshot {
	return domain.NewSessionSnapshot(
		a.session.ID,
		a.progress.CurrentIndex(),
		a.progress.CorrectAnswers(),
		a.progress.Answered(),
		a.progress.Completed(),
		at,
	)
}

// stop discards any pending snapshot of the current session.
func (a *Attempt) stop() {
	if a.writer != nil {
		a.writer.Discard()
		a.writer = nil
	}
}

func (a *Attempt) touch(now time.Time) { a.lastSeen = now }

func (a *Attempt) idleSince() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSeen
}

// visibleTo reports whether the caller may drive this attempt.
func (a *Attempt) visibleTo(userID uuid.UUID) bool {
	return a.ownerID == userID
}
