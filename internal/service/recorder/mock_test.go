package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

var _ sessionRepo = &sessionRepoMock{}

type sessionRepoMock struct {
	InsertFunc        func(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error)
	UpdateFunc        func(ctx context.Context, userID uuid.UUID, snap domain.SessionSnapshot) error
	GetByIDFunc       func(ctx context.Context, userID, sessionID uuid.UUID) (*domain.QuizSession, error)
	BestCompletedFunc func(ctx context.Context, userID, setID uuid.UUID) (int, error)

	mu    sync.RWMutex
	calls struct {
		Insert        []*domain.QuizSession
		Update        []domain.SessionSnapshot
		GetByID       []uuid.UUID
		BestCompleted []uuid.UUID
	}
}

func (mock *sessionRepoMock) Insert(ctx context.Context, session *domain.QuizSession) (*domain.QuizSession, error) {
	if mock.InsertFunc == nil {
		panic("sessionRepoMock.InsertFunc: method is nil but sessionRepo.Insert was just called")
	}
	mock.mu.Lock()
	mock.calls.Insert = append(mock.calls.Insert, session)
	mock.mu.Unlock()
	return mock.InsertFunc(ctx, session)
}

func (mock *sessionRepoMock) InsertCalls() []*domain.QuizSession {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Insert
}

func (mock *sessionRepoMock) Update(ctx context.Context, userID uuid.UUID, snap domain.SessionSnapshot) error {
	if mock.UpdateFunc == nil {
		panic("sessionRepoMock.UpdateFunc: method is nil but sessionRepo.Update was just called")
	}
	mock.mu.Lock()
	mock.calls.Update = append(mock.calls.Update, snap)
	mock.mu.Unlock()
	return mock.UpdateFunc(ctx, userID, snap)
}

func (mock *sessionRepoMock) UpdateCalls() []domain.SessionSnapshot {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.Update
}

func (mock *sessionRepoMock) GetByID(ctx context.Context, userID, sessionID uuid.UUID) (*domain.QuizSession, error) {
	if mock.GetByIDFunc == nil {
		panic("sessionRepoMock.GetByIDFunc: method is nil but sessionRepo.GetByID was just called")
	}
	mock.mu.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, sessionID)
	mock.mu.Unlock()
	return mock.GetByIDFunc(ctx, userID, sessionID)
}

func (mock *sessionRepoMock) GetByIDCalls() []uuid.UUID {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.GetByID
}

func (mock *sessionRepoMock) BestCompleted(ctx context.Context, userID, setID uuid.UUID) (int, error) {
	if mock.BestCompletedFunc == nil {
		panic("sessionRepoMock.BestCompletedFunc: method is nil but sessionRepo.BestCompleted was just called")
	}
	mock.mu.Lock()
	mock.calls.BestCompleted = append(mock.calls.BestCompleted, setID)
	mock.mu.Unlock()
	return mock.BestCompletedFunc(ctx, userID, setID)
}

func (mock *sessionRepoMock) BestCompletedCalls() []uuid.UUID {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.BestCompleted
}

var _ setRepo = &setRepoMock{}

type setRepoMock struct {
	GetHighScoreFunc    func(ctx context.Context, userID, setID uuid.UUID) (int, error)
	UpdateHighScoreFunc func(ctx context.Context, userID, setID uuid.UUID, score int, at time.Time) (bool, error)

	mu    sync.RWMutex
	calls struct {
		GetHighScore    []uuid.UUID
		UpdateHighScore []int
	}
}

func (mock *setRepoMock) GetHighScore(ctx context.Context, userID, setID uuid.UUID) (int, error) {
	if mock.GetHighScoreFunc == nil {
		panic("setRepoMock.GetHighScoreFunc: method is nil but setRepo.GetHighScore was just called")
	}
	mock.mu.Lock()
	mock.calls.GetHighScore = append(mock.calls.GetHighScore, setID)
	mock.mu.Unlock()
	return mock.GetHighScoreFunc(ctx, userID, setID)
}

func (mock *setRepoMock) GetHighScoreCalls() []uuid.UUID {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.GetHighScore
}

func (mock *setRepoMock) UpdateHighScore(ctx context.Context, userID, setID uuid.UUID, score int, at time.Time) (bool, error) {
	if mock.UpdateHighScoreFunc == nil {
		panic("setRepoMock.UpdateHighScoreFunc: method is nil but setRepo.UpdateHighScore was just called")
	}
	mock.mu.Lock()
	mock.calls.UpdateHighScore = append(mock.calls.UpdateHighScore, score)
	mock.mu.Unlock()
	return mock.UpdateHighScoreFunc(ctx, userID, setID, score, at)
}

func (mock *setRepoMock) UpdateHighScoreCalls() []int {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls.UpdateHighScore
}

var _ eventPublisher = &eventPublisherMock{}

type eventPublisherMock struct {
	PublishFunc func(ctx context.Context, event domain.Event) error

	mu    sync.RWMutex
	calls []domain.Event
}

func (mock *eventPublisherMock) Publish(ctx context.Context, event domain.Event) error {
	mock.mu.Lock()
	mock.calls = append(mock.calls, event)
	mock.mu.Unlock()
	if mock.PublishFunc == nil {
		return nil
	}
	return mock.PublishFunc(ctx, event)
}

func (mock *eventPublisherMock) PublishCalls() []domain.Event {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls
}
