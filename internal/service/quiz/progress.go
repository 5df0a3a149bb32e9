package quiz

import (
	"fmt"
	"math"

	"github.com/heartmarshall/flashquiz/internal/domain"
)

// Phase is the lifecycle stage of one study pass.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseEmpty     Phase = "empty"
	PhaseActive    Phase = "active"
	PhaseCompleted Phase = "completed"
)

func (p Phase) String() string { return string(p) }

// Outcome is the answer state of a single card within an attempt.
type Outcome int8

const (
	Unanswered Outcome = iota
	AnsweredCorrect
	AnsweredIncorrect
)

// Progress is the whole tracking state of one attempt. Transitions take a
// Progress by value and return the next one; outcomes are copied before any
// write so earlier values stay valid.
type Progress struct {
	phase    Phase
	current  int
	revealed bool
	outcomes []Outcome
	correct  int
}

// NewProgress returns the initial Loading state.
func NewProgress() Progress {
	return Progress{phase: PhaseLoading}
}

// Loaded moves Loading to Active with every card unanswered, or to Empty
// when there is nothing to study.
func (p Progress) Loaded(cardCount int) Progress {
	if cardCount <= 0 {
		return Progress{phase: PhaseEmpty}
	}
	return Progress{
		phase:    PhaseActive,
		outcomes: make([]Outcome, cardCount),
	}
}

// Answer records the outcome of the current card. It reports false and
// leaves the state untouched when the card is already answered or the
// attempt is not active.
func (p Progress) Answer(correct bool) (Progress, bool) {
	if p.phase != PhaseActive || p.outcomes[p.current] != Unanswered {
		return p, false
	}

	next := p.clone()
	if correct {
		next.outcomes[p.current] = AnsweredCorrect
		next.correct++
	} else {
		next.outcomes[p.current] = AnsweredIncorrect
	}

	if next.allAnswered() {
		next.phase = PhaseCompleted
		return next, true
	}

	next.moveTo(next.nextUnanswered())
	return next, true
}

// GoTo jumps to any card in range, answered or not.
func (p Progress) GoTo(index int) (Progress, error) {
	if p.phase != PhaseActive && p.phase != PhaseCompleted {
		return p, domain.NewValidationError("index", fmt.Sprintf("no cards to navigate in phase %s", p.phase))
	}
	if index < 0 || index >= len(p.outcomes) {
		return p, domain.NewValidationError("index", fmt.Sprintf("must be between 0 and %d", len(p.outcomes)-1))
	}
	next := p.clone()
	next.moveTo(index)
	return next, nil
}

// Reveal shows the answer of the current card.
func (p Progress) Reveal() Progress { return p.withRevealed(true) }

// Hide hides the answer of the current card.
func (p Progress) Hide() Progress { return p.withRevealed(false) }

// Toggle flips answer visibility.
func (p Progress) Toggle() Progress { return p.withRevealed(!p.revealed) }

func (p Progress) withRevealed(v bool) Progress {
	if len(p.outcomes) == 0 {
		return p
	}
	p.revealed = v
	return p
}

// nextUnanswered prefers the card right after the current one, then the
// lowest unanswered index overall. It returns the current index when every
// card is answered.
func (p Progress) nextUnanswered() int {
	if n := p.current + 1; n < len(p.outcomes) && p.outcomes[n] == Unanswered {
		return n
	}
	for i, o := range p.outcomes {
		if o == Unanswered {
			return i
		}
	}
	return p.current
}

func (p *Progress) moveTo(index int) {
	if index != p.current {
		p.current = index
		p.revealed = false
	}
}

func (p Progress) allAnswered() bool {
	for _, o := range p.outcomes {
		if o == Unanswered {
			return false
		}
	}
	return true
}

func (p Progress) clone() Progress {
	p.outcomes = append([]Outcome(nil), p.outcomes...)
	return p
}

// ---------------------------------------------------------------------------
// Read accessors
// ---------------------------------------------------------------------------

func (p Progress) Phase() Phase { return p.phase }
func (p Progress) CurrentIndex() int { return p.current }
func (p Progress) Revealed() bool { return p.revealed }
func (p Progress) CardCount() int { return len(p.outcomes) }
func (p Progress) CorrectAnswers() int { return p.correct }
func (p Progress) Completed() bool { return p.phase == PhaseCompleted }

// Outcome returns the outcome of card i, Unanswered when out of range.
func (p Progress) Outcome(i int) Outcome {
	if i < 0 || i >= len(p.outcomes) {
		return Unanswered
	}
	return p.outcomes[i]
}

// TotalAttempts is the number of answered cards.
func (p Progress) TotalAttempts() int {
	n := 0
	for _, o := range p.outcomes {
		if o != Unanswered {
			n++
		}
	}
	return n
}

// Answered returns the per-card answered flags, index-aligned to the cards.
func (p Progress) Answered() []bool {
	out := make([]bool, len(p.outcomes))
	for i, o := range p.outcomes {
		out[i] = o != Unanswered
	}
	return out
}

// Correctness returns per-card correctness; nil entries are unanswered.
func (p Progress) Correctness() []*bool {
	out := make([]*bool, len(p.outcomes))
	for i, o := range p.outcomes {
		switch o {
		case AnsweredCorrect:
			v := true
			out[i] = &v
		case AnsweredIncorrect:
			v := false
			out[i] = &v
		}
	}
	return out
}

// ProgressPercent is the share of answered cards, rounded.
func (p Progress) ProgressPercent() int {
	return Percent(p.TotalAttempts(), len(p.outcomes))
}

// ScorePercent is correct answers over the total card count, not over the
// answered count, so a partial run never looks better than it is.
func (p Progress) ScorePercent() int {
	return Percent(p.correct, len(p.outcomes))
}

// Percent returns round(100*part/whole), or 0 when whole is 0.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

// Validate checks the tracking invariants. A non-nil result means a
// transition is broken.
func (p Progress) Validate() error {
	correct, answered := 0, 0
	for _, o := range p.outcomes {
		switch o {
		case AnsweredCorrect:
			correct++
			answered++
		case AnsweredIncorrect:
			answered++
		}
	}

	switch {
	case correct != p.correct:
		return fmt.Errorf("correct answers %d, outcomes say %d", p.correct, correct)
	case p.correct > answered || answered > len(p.outcomes):
		return fmt.Errorf("counters out of order: correct=%d answered=%d cards=%d", p.correct, answered, len(p.outcomes))
	case len(p.outcomes) > 0 && (p.current < 0 || p.current >= len(p.outcomes)):
		return fmt.Errorf("current index %d outside [0,%d)", p.current, len(p.outcomes))
	case p.phase == PhaseCompleted && answered != len(p.outcomes):
		return fmt.Errorf("completed with %d of %d answered", answered, len(p.outcomes))
	case p.phase == PhaseActive && answered == len(p.outcomes):
		return fmt.Errorf("active with every card answered")
	}
	return nil
}
