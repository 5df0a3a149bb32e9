package domain

import "strings"

// Difficulty is the generator-assigned difficulty of a card.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) String() string { return string(d) }

func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty normalizes a stored difficulty. Empty values fall back to
// medium, which is what the generator writes when it has no opinion.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if d == "" {
		return DifficultyMedium
	}
	return d
}

// EventType names a domain event. It doubles as the AMQP routing key.
type EventType string

const (
	EventQuizCompleted   EventType = "quiz.completed"
	EventHighScoreRaised EventType = "highscore.raised"
)

func (e EventType) String() string { return string(e) }

func (e EventType) IsValid() bool {
	switch e {
	case EventQuizCompleted, EventHighScoreRaised:
		return true
	}
	return false
}
