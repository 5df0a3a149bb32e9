package quiz

import (
	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// View is the read model of an attempt rendered by the presentation layer.
type View struct {
	AttemptID        uuid.UUID
	SessionID        *uuid.UUID
	SetID            uuid.UUID
	Title            string
	Phase            Phase
	CurrentIndex     int
	Card             *domain.Card
	Revealed         bool
	Answered         []bool
	Correctness      []*bool
	CorrectAnswers   int
	TotalAttempts    int
	CardCount        int
	ProgressPercent  int
	ScorePercent     int
	HighScore        int
	HighScorePercent int
	LocalOnly        bool
	Warning          string
}

func (v View) Loading() bool { return v.Phase == PhaseLoading }
func (v View) Empty() bool { return v.Phase == PhaseEmpty }
func (v View) Completed() bool { return v.Phase == PhaseCompleted }

// view builds the read model. Caller must hold a.mu.
func (a *Attempt) view() View {
	p := a.progress
	v := View{
		AttemptID:        a.id,
		SetID:            a.setID,
		Title:            a.title,
		Phase:            p.Phase(),
		CurrentIndex:     p.CurrentIndex(),
		Revealed:         p.Revealed(),
		Answered:         p.Answered(),
		Correctness:      p.Correctness(),
		CorrectAnswers:   p.CorrectAnswers(),
		TotalAttempts:    p.TotalAttempts(),
		CardCount:        p.CardCount(),
		ProgressPercent:  p.ProgressPercent(),
		ScorePercent:     p.ScorePercent(),
		HighScore:        a.highScore,
		HighScorePercent: Percent(a.highScore, p.CardCount()),
		LocalOnly:        a.localOnly,
		Warning:          a.warning,
	}
	if a.session != nil {
		id := a.session.ID
		v.SessionID = &id
	}
	if p.CardCount() > 0 {
		card := a.cards[p.CurrentIndex()]
		v.Card = &card
	}
	return v
}
