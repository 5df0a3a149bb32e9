package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
	"github.com/heartmarshall/flashquiz/internal/service/catalog"
	"github.com/heartmarshall/flashquiz/internal/service/quiz"
)

var _ quizService = &quizServiceMock{}

type quizServiceMock struct {
	StartFunc  func(ctx context.Context, setID uuid.UUID) (quiz.View, error)
	ViewFunc   func(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	RevealFunc func(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	HideFunc   func(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	ToggleFunc func(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	GoToFunc   func(ctx context.Context, attemptID uuid.UUID, index int) (quiz.View, error)
	AnswerFunc func(ctx context.Context, attemptID uuid.UUID, correct bool) (quiz.View, error)
	ResetFunc  func(ctx context.Context, attemptID uuid.UUID) (quiz.View, error)
	BackFunc   func(ctx context.Context, attemptID uuid.UUID) error

	mu    sync.Mutex
	calls []string
}

func (mock *quizServiceMock) record(name string) {
	mock.mu.Lock()
	mock.calls = append(mock.calls, name)
	mock.mu.Unlock()
}

// Calls returns the names of the methods called, in order.
func (mock *quizServiceMock) Calls() []string {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return append([]string(nil), mock.calls...)
}

func (mock *quizServiceMock) Start(ctx context.Context, setID uuid.UUID) (quiz.View, error) {
	if mock.StartFunc == nil {
		panic("quizServiceMock.StartFunc: method is nil but quizService.Start was just called")
	}
	mock.record("Start")
	return mock.StartFunc(ctx, setID)
}

func (mock *quizServiceMock) View(ctx context.Context, attemptID uuid.UUID) (quiz.View, error) {
	if mock.ViewFunc == nil {
		panic("quizServiceMock.ViewFunc: method is nil but quizService.View was just called")
	}
	mock.record("View")
	return mock.ViewFunc(ctx, attemptID)
}

func (mock *quizServiceMock) Reveal(ctx context.Context, attemptID uuid.UUID) (quiz.View, error) {
	if mock.RevealFunc == nil {
		panic("quizServiceMock.RevealFunc: method is nil but quizService.Reveal was just called")
	}
	mock.record("Reveal")
	return mock.RevealFunc(ctx, attemptID)
}

func (mock *quizServiceMock) Hide(ctx context.Context, attemptID uuid.UUID) (quiz.View, error) {
	if mock.HideFunc == nil {
		panic("quizServiceMock.HideFunc: method is nil but quizService.Hide was just called")
	}
	mock.record("Hide")
	return mock.HideFunc(ctx, attemptID)
}

func (mock *quizServiceMock) Toggle(ctx context.Context, attemptID uuid.UUID) (quiz.View, error) {
	if mock.ToggleFunc == nil {
		panic("quizServiceMock.ToggleFunc: method is nil but quizService.Toggle was just called")
	}
	mock.record("Toggle")
	return mock.ToggleFunc(ctx, attemptID)
}

func (mock *quizServiceMock) GoTo(ctx context.Context, attemptID uuid.UUID, index int) (quiz.View, error) {
	if mock.GoToFunc == nil {
		panic("quizServiceMock.GoToFunc: method is nil but quizService.GoTo was just called")
	}
	mock.record("GoTo")
	return mock.GoToFunc(ctx, attemptID, index)
}

func (mock *quizServiceMock) Answer(ctx context.Context, attemptID uuid.UUID, correct bool) (quiz.View, error) {
	if mock.AnswerFunc == nil {
		panic("quizServiceMock.AnswerFunc: method is nil but quizService.Answer was just called")
	}
	mock.record("Answer")
	return mock.AnswerFunc(ctx, attemptID, correct)
}

func (mock *quizServiceMock) Reset(ctx context.Context, attemptID uuid.UUID) (quiz.View, error) {
	if mock.ResetFunc == nil {
		panic("quizServiceMock.ResetFunc: method is nil but quizService.Reset was just called")
	}
	mock.record("Reset")
	return mock.ResetFunc(ctx, attemptID)
}

func (mock *quizServiceMock) Back(ctx context.Context, attemptID uuid.UUID) error {
	if mock.BackFunc == nil {
		panic("quizServiceMock.BackFunc: method is nil but quizService.Back was just called")
	}
	mock.record("Back")
	return mock.BackFunc(ctx, attemptID)
}

var _ catalogService = &catalogServiceMock{}

type catalogServiceMock struct {
	CreateSetFunc func(ctx context.Context, input catalog.CreateSetInput) (*domain.Set, error)
	ListSetsFunc  func(ctx context.Context) ([]domain.Set, error)
	DeleteSetFunc func(ctx context.Context, input catalog.DeleteSetInput) error
}

func (mock *catalogServiceMock) CreateSet(ctx context.Context, input catalog.CreateSetInput) (*domain.Set, error) {
	if mock.CreateSetFunc == nil {
		panic("catalogServiceMock.CreateSetFunc: method is nil but catalogService.CreateSet was just called")
	}
	return mock.CreateSetFunc(ctx, input)
}

func (mock *catalogServiceMock) ListSets(ctx context.Context) ([]domain.Set, error) {
	if mock.ListSetsFunc == nil {
		panic("catalogServiceMock.ListSetsFunc: method is nil but catalogService.ListSets was just called")
	}
	return mock.ListSetsFunc(ctx)
}

func (mock *catalogServiceMock) DeleteSet(ctx context.Context, input catalog.DeleteSetInput) error {
	if mock.DeleteSetFunc == nil {
		panic("catalogServiceMock.DeleteSetFunc: method is nil but catalogService.DeleteSet was just called")
	}
	return mock.DeleteSetFunc(ctx, input)
}

var _ highScoreFetcher = &highScoreFetcherMock{}

type highScoreFetcherMock struct {
	FetchHighScoreFunc func(ctx context.Context, setID uuid.UUID) (int, error)
}

func (mock *highScoreFetcherMock) FetchHighScore(ctx context.Context, setID uuid.UUID) (int, error) {
	if mock.FetchHighScoreFunc == nil {
		panic("highScoreFetcherMock.FetchHighScoreFunc: method is nil but highScoreFetcher.FetchHighScore was just called")
	}
	return mock.FetchHighScoreFunc(ctx, setID)
}
