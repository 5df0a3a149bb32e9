package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

// CardInput is one generated question/answer pair.
type CardInput struct {
	Question   string
	Answer     string
	Difficulty string
}

// CreateSetInput holds a generated set to be saved.
type CreateSetInput struct {
	Title  string
	Prompt string
	Cards  []CardInput
}

// Validate checks all fields and collects all errors.
func (i CreateSetInput) Validate() error {
	var verr domain.ValidationError

	title := strings.TrimSpace(i.Title)
	if title == "" {
		verr.Add("title", "required")
	}
	if len(title) > 200 {
		verr.Add("title", "max 200 characters")
	}
	if len(i.Prompt) > 10000 {
		verr.Add("prompt", "max 10000 characters")
	}
	if len(i.Cards) > MaxCardsPerSet {
		verr.Add("cards", fmt.Sprintf("max %d cards", MaxCardsPerSet))
	}

	for n, c := range i.Cards {
		if strings.TrimSpace(c.Question) == "" {
			verr.Add(fmt.Sprintf("cards[%d].question", n), "required")
		}
		if strings.TrimSpace(c.Answer) == "" {
			verr.Add(fmt.Sprintf("cards[%d].answer", n), "required")
		}
		if !domain.ParseDifficulty(c.Difficulty).IsValid() {
			verr.Add(fmt.Sprintf("cards[%d].difficulty", n), "must be easy, medium or hard")
		}
	}

	return verr.Err()
}

// DeleteSetInput holds the parameters for deleting a set.
type DeleteSetInput struct {
	SetID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DeleteSetInput) Validate() error {
	if i.SetID == uuid.Nil {
		return domain.NewValidationError("set_id", "required")
	}
	return nil
}
