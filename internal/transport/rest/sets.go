package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/internal/service/catalog"
	"github.com/heartmarshall/flashquiz/internal/transport/dataloader"
)

type catalogService interface {
	CreateSet(ctx context.Context, input catalog.CreateSetInput) (*domain.Set, error)
	ListSets(ctx context.Context) ([]domain.Set, error)
	DeleteSet(ctx context.Context, input catalog.DeleteSetInput) error
}

type highScoreFetcher interface {
	FetchHighScore(ctx context.Context, setID uuid.UUID) (int, error)
}

// SetHandler serves the caller's flashcard sets.
type SetHandler struct {
	catalog catalogService
	scores  highScoreFetcher
	log     *slog.Logger
}

// NewSetHandler creates a SetHandler.
func NewSetHandler(svc catalogService, scores highScoreFetcher, logger *slog.Logger) *SetHandler {
	return &SetHandler{
		catalog: svc,
		scores:  scores,
		log:     logger.With("handler", "sets"),
	}
}

// ---------------------------------------------------------------------------
// Request / response types
// ---------------------------------------------------------------------------

type createSetRequest struct {
	Title  string              `json:"title"`
	Prompt string              `json:"prompt"`
	Cards  []createCardRequest `json:"cards"`
}

type createCardRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty string `json:"difficulty"`
}

type setResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Prompt    string    `json:"prompt"`
	CardCount int       `json:"card_count"`
	HighScore int       `json:"high_score"`
	CreatedAt time.Time `json:"created_at"`
}

type setListResponse struct {
	Sets []setResponse `json:"sets"`
}

type highScoreResponse struct {
	SetID     uuid.UUID `json:"set_id"`
	HighScore int       `json:"high_score"`
}

func toSetResponse(s domain.SetSummary) setResponse {
	return setResponse{
		ID:        s.ID,
		Title:     s.Title,
		Prompt:    s.Prompt,
		CardCount: s.CardCount,
		HighScore: s.HighScore,
		CreatedAt: s.CreatedAt,
	}
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// List handles GET /api/sets. Card counts and high scores are batched
// through the request's loaders.
func (h *SetHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sets, err := h.catalog.ListSets(ctx)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	summaries, err := summarize(ctx, sets)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := setListResponse{Sets: make([]setResponse, 0, len(summaries))}
	for _, s := range summaries {
		resp.Sets = append(resp.Sets, toSetResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// summarize queues every lookup before resolving any, so each loader issues
// one batch for the whole page.
func summarize(ctx context.Context, sets []domain.Set) ([]domain.SetSummary, error) {
	loaders := dataloader.FromContext(ctx)

	ids := make([]uuid.UUID, len(sets))
	for i, s := range sets {
		ids[i] = s.ID
	}
	counts := loaders.CardCountBySetID.LoadMany(ctx, ids)
	scores := loaders.HighScoreBySetID.LoadMany(ctx, ids)

	cardCounts, errs := counts()
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("load card counts: %w", err)
	}
	highScores, errs := scores()
	if err := firstError(errs); err != nil {
		return nil, fmt.Errorf("load high scores: %w", err)
	}

	out := make([]domain.SetSummary, len(sets))
	for i, s := range sets {
		out[i] = domain.SetSummary{
			ID:        s.ID,
			Title:     s.Title,
			Prompt:    s.Prompt,
			CardCount: cardCounts[i],
			HighScore: max(s.HighScore, highScores[i]),
			CreatedAt: s.CreatedAt,
		}
	}
	return out, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Create handles POST /api/sets.
func (h *SetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSetRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := catalog.CreateSetInput{
		Title:  req.Title,
		Prompt: req.Prompt,
		Cards:  make([]catalog.CardInput, len(req.Cards)),
	}
	for i, c := range req.Cards {
		input.Cards[i] = catalog.CardInput{Question: c.Question, Answer: c.Answer, Difficulty: c.Difficulty}
	}

	set, err := h.catalog.CreateSet(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toSetResponse(domain.SetSummary{
		ID:        set.ID,
		Title:     set.Title,
		Prompt:    set.Prompt,
		CardCount: len(req.Cards),
		HighScore: set.HighScore,
		CreatedAt: set.CreatedAt,
	}))
}

// Delete handles DELETE /api/sets/{id}.
func (h *SetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "set_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.catalog.DeleteSet(r.Context(), catalog.DeleteSetInput{SetID: id}); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HighScore handles GET /api/sets/{id}/high-score.
func (h *SetHandler) HighScore(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "set_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	score, err := h.scores.FetchHighScore(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, highScoreResponse{SetID: id, HighScore: score})
}
