package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/internal/service/quiz"
)

type quizService interface {
	Start(ctx context.Context, setID uuid.UUID) (quiz.View, error)
	View(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	Reveal(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	Hide(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	Toggle(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	GoTo(ctx context.Context, attemptID uuid.UUID, index int) (quiz.View, error)
	Answer(ctx context.Context, attemptID uuid.UUID, correct bool) (quiz.View, error)
	Reset(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	Back(ctx context.Context, attemptID uuid.UUID) error
}

// AttemptHandler serves the quiz commands of a single attempt.
type AttemptHandler struct {
	quiz quizService
	log  *slog.Logger
}

// NewAttemptHandler creates an AttemptHandler.
func NewAttemptHandler(svc quizService, logger *slog.Logger) *AttemptHandler {
	return &AttemptHandler{
		quiz: svc,
		log:  logger.With("handler", "attempts"),
	}
}

// ---------------------------------------------------------------------------
// Request / response types
// ---------------------------------------------------------------------------

type startRequest struct {
	SetID uuid.UUID `json:"set_id"`
}

type answerRequest struct {
	Correct *bool `json:"correct"`
}

type goToRequest struct {
	Index *int `json:"index"`
}

type cardResponse struct {
	ID         uuid.UUID `json:"id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Difficulty string    `json:"difficulty"`
	CreatedAt  time.Time `json:"created_at"`
}

type viewResponse struct {
	AttemptID        uuid.UUID     `json:"attempt_id"`
	SessionID        *uuid.UUID    `json:"session_id"`
	SetID            uuid.UUID     `json:"set_id"`
	Title            string        `json:"title"`
	Phase            string        `json:"phase"`
	Loading          bool          `json:"loading"`
	Empty            bool          `json:"empty"`
	Completed        bool          `json:"completed"`
	CurrentIndex     int           `json:"current_index"`
	Card             *cardResponse `json:"card"`
	Revealed         bool          `json:"revealed"`
	Answered         []bool        `json:"answered"`
	Correctness      []*bool       `json:"correctness"`
	CorrectAnswers   int           `json:"correct_answers"`
	TotalAttempts    int           `json:"total_attempts"`
	CardCount        int           `json:"card_count"`
	ProgressPercent  int           `json:"progress_percent"`
	ScorePercent     int           `json:"score_percent"`
	HighScore        int           `json:"high_score"`
	HighScorePercent int           `json:"high_score_percent"`
	LocalOnly        bool          `json:"local_only"`
	Warning          string        `json:"warning"`
}

func toViewResponse(v quiz.View) viewResponse {
	resp := viewResponse{
		AttemptID:        v.AttemptID,
		SessionID:        v.SessionID,
		SetID:            v.SetID,
		Title:            v.Title,
		Phase:            v.Phase.String(),
		Loading:          v.Loading(),
		Empty:            v.Empty(),
		Completed:        v.Completed(),
		CurrentIndex:     v.CurrentIndex,
		Revealed:         v.Revealed,
		Answered:         v.Answered,
		Correctness:      v.Correctness,
		CorrectAnswers:   v.CorrectAnswers,
		TotalAttempts:    v.TotalAttempts,
		CardCount:        v.CardCount,
		ProgressPercent:  v.ProgressPercent,
		ScorePercent:     v.ScorePercent,
		HighScore:        v.HighScore,
		HighScorePercent: v.HighScorePercent,
		LocalOnly:        v.LocalOnly,
		Warning:          v.Warning,
	}
	if resp.Answered == nil {
		resp.Answered = []bool{}
	}
	if resp.Correctness == nil {
		resp.Correctness = []*bool{}
	}
	if v.Card != nil {
		resp.Card = &cardResponse{
			ID:         v.Card.ID,
			Question:   v.Card.Question,
			Answer:     v.Card.Answer,
			Difficulty: v.Card.Difficulty.String(),
			CreatedAt:  v.Card.CreatedAt,
		}
	}
	return resp
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

// Start handles POST /api/attempts. An empty set answers 200 instead of 201
// because no session was opened.
func (h *AttemptHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	view, err := h.quiz.Start(r.Context(), req.SetID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := http.StatusCreated
	if view.Empty() {
		status = http.StatusOK
	}
	writeJSON(w, status, toViewResponse(view))
}

// Get handles GET /api/attempts/{id}.
func (h *AttemptHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.quiz.View)
}

// Reveal handles POST /api/attempts/{id}/reveal.
func (h *AttemptHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.quiz.Reveal)
}

// Hide handles POST /api/attempts/{id}/hide.
func (h *AttemptHandler) Hide(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.quiz.Hide)
}

// Toggle handles POST /api/attempts/{id}/toggle.
func (h *AttemptHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.quiz.Toggle)
}

// Reset handles POST /api/attempts/{id}/reset.
func (h *AttemptHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.command(w, r, h.quiz.Reset)
}

// Answer handles POST /api/attempts/{id}/answer.
func (h *AttemptHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.Correct == nil {
		handleError(h.log, w, r, domain.NewValidationError("correct", "required"))
		return
	}

	h.command(w, r, func(ctx context.Context, id uuid.UUID) (quiz.View, error) {
		return h.quiz.Answer(ctx, id, *req.Correct)
	})
}

// GoTo handles POST /api/attempts/{id}/goto.
func (h *AttemptHandler) GoTo(w http.ResponseWriter, r *http.Request) {
	var req goToRequest
	if err := decodeBody(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if req.Index == nil {
		handleError(h.log, w, r, domain.NewValidationError("index", "required"))
		return
	}

	h.command(w, r, func(ctx context.Context, id uuid.UUID) (quiz.View, error) {
		return h.quiz.GoTo(ctx, id, *req.Index)
	})
}

// Back handles DELETE /api/attempts/{id}.
func (h *AttemptHandler) Back(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "attempt_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	if err := h.quiz.Back(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AttemptHandler) command(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (quiz.View, error)) {
	id, err := pathID(r, "attempt_id")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	view, err := fn(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toViewResponse(view))
}
