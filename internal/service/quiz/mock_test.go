package quiz

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

var _ cardStore = &cardStoreMock{}

type cardStoreMock struct {
	GetCardsForSetFunc func(ctx context.Context, setID uuid.UUID) ([]domain.Card, error)
	GetSetMetadataFunc func(ctx context.Context, userID, setID uuid.UUID) (domain.SetMetadata, error)

	calls struct {
		GetCardsForSet []struct{ SetID uuid.UUID }
		GetSetMetadata []struct{ UserID, SetID uuid.UUID }
	}
	lockGetCardsForSet sync.RWMutex
	lockGetSetMetadata sync.RWMutex
}

func (mock *cardStoreMock) GetCardsForSet(ctx context.Context, setID uuid.UUID) ([]domain.Card, error) {
	if mock.GetCardsForSetFunc == nil {
		panic("cardStoreMock.GetCardsForSetFunc: method is nil but cardStore.GetCardsForSet was just called")
	}
	mock.lockGetCardsForSet.Lock()
	mock.calls.GetCardsForSet = append(mock.calls.GetCardsForSet, struct{ SetID uuid.UUID }{setID})
	mock.lockGetCardsForSet.Unlock()
	return mock.GetCardsForSetFunc(ctx, setID)
}

func (mock *cardStoreMock) GetCardsForSetCalls() []struct{ SetID uuid.UUID } {
	mock.lockGetCardsForSet.RLock()
	defer mock.lockGetCardsForSet.RUnlock()
	return mock.calls.GetCardsForSet
}

func (mock *cardStoreMock) GetSetMetadata(ctx context.Context, userID, setID uuid.UUID) (domain.SetMetadata, error) {
	if mock.GetSetMetadataFunc == nil {
		panic("cardStoreMock.GetSetMetadataFunc: method is nil but cardStore.GetSetMetadata was just called")
	}
	mock.lockGetSetMetadata.Lock()
	mock.calls.GetSetMetadata = append(mock.calls.GetSetMetadata, struct{ UserID, SetID uuid.UUID }{userID, setID})
	mock.lockGetSetMetadata.Unlock()
	return mock.GetSetMetadataFunc(ctx, userID, setID)
}

func (mock *cardStoreMock) GetSetMetadataCalls() []struct{ UserID, SetID uuid.UUID } {
	mock.lockGetSetMetadata.RLock()
	defer mock.lockGetSetMetadata.RUnlock()
	return mock.calls.GetSetMetadata
}

var _ sessionRecorder = &sessionRecorderMock{}

type sessionRecorderMock struct {
	CreateSessionFunc  func(ctx context.Context, setID uuid.UUID) (*domain.QuizSession, error)
	SnapshotFunc       func(ctx context.Context, snap domain.SessionSnapshot) error
	CompleteFunc       func(ctx context.Context, setID uuid.UUID, snap domain.SessionSnapshot, cardCount int) (domain.CompletionResult, error)
	FetchHighScoreFunc func(ctx context.Context, setID uuid.UUID) (int, error)

	calls struct {
		CreateSession []struct{ SetID uuid.UUID }
		Snapshot      []struct{ Snap domain.SessionSnapshot }
		Complete      []struct {
			SetID     uuid.UUID
			Snap      domain.SessionSnapshot
			CardCount int
		}
		FetchHighScore []struct{ SetID uuid.UUID }
	}
	lockCreateSession  sync.RWMutex
	lockSnapshot       sync.RWMutex
	lockComplete       sync.RWMutex
	lockFetchHighScore sync.RWMutex
}

func (mock *sessionRecorderMock) CreateSession(ctx context.Context, setID uuid.UUID) (*domain.QuizSession, error) {
	if mock.CreateSessionFunc == nil {
		panic("sessionRecorderMock.CreateSessionFunc: method is nil but sessionRecorder.CreateSession was just called")
	}
	mock.lockCreateSession.Lock()
	mock.calls.CreateSession = append(mock.calls.CreateSession, struct{ SetID uuid.UUID }{setID})
	mock.lockCreateSession.Unlock()
	return mock.CreateSessionFunc(ctx, setID)
}

func (mock *sessionRecorderMock) CreateSessionCalls() []struct{ SetID uuid.UUID } {
	mock.lockCreateSession.RLock()
	defer mock.lockCreateSession.RUnlock()
	return mock.calls.CreateSession
}

func (mock *sessionRecorderMock) Snapshot(ctx context.Context, snap domain.SessionSnapshot) error {
	if mock.SnapshotFunc == nil {
		panic("sessionRecorderMock.SnapshotFunc: method is nil but sessionRecorder.Snapshot was just called")
	}
	mock.lockSnapshot.Lock()
	mock.calls.Snapshot = append(mock.calls.Snapshot, struct{ Snap domain.SessionSnapshot }{snap})
	mock.lockSnapshot.Unlock()
	return mock.SnapshotFunc(ctx, snap)
}

func (mock *sessionRecorderMock) SnapshotCalls() []struct{ Snap domain.SessionSnapshot } {
	mock.lockSnapshot.RLock()
	defer mock.lockSnapshot.RUnlock()
	return append([]struct{ Snap domain.SessionSnapshot }(nil), mock.calls.Snapshot...)
}

func (mock *sessionRecorderMock) Complete(ctx context.Context, setID uuid.UUID, snap domain.SessionSnapshot, cardCount int) (domain.CompletionResult, error) {
	if mock.CompleteFunc == nil {
		panic("sessionRecorderMock.CompleteFunc: method is nil but sessionRecorder.Complete was just called")
	}
	callInfo := struct {
		SetID     uuid.UUID
		Snap      domain.SessionSnapshot
		CardCount int
	}{setID, snap, cardCount}
	mock.lockComplete.Lock()
	mock.calls.Complete = append(mock.calls.Complete, callInfo)
	mock.lockComplete.Unlock()
	return mock.CompleteFunc(ctx, setID, snap, cardCount)
}

func (mock *sessionRecorderMock) CompleteCalls() []struct {
	SetID     uuid.UUID
	Snap      domain.SessionSnapshot
	CardCount int
} {
	mock.lockComplete.RLock()
	defer mock.lockComplete.RUnlock()
	return mock.calls.Complete
}

func (mock *sessionRecorderMock) FetchHighScore(ctx context.Context, setID uuid.UUID) (int, error) {
	if mock.FetchHighScoreFunc == nil {
		panic("sessionRecorderMock.FetchHighScoreFunc: method is nil but sessionRecorder.FetchHighScore was just called")
	}
	mock.lockFetchHighScore.Lock()
	mock.calls.FetchHighScore = append(mock.calls.FetchHighScore, struct{ SetID uuid.UUID }{setID})
	mock.lockFetchHighScore.Unlock()
	return mock.FetchHighScoreFunc(ctx, setID)
}

func (mock *sessionRecorderMock) FetchHighScoreCalls() []struct{ SetID uuid.UUID } {
	mock.lockFetchHighScore.RLock()
	defer mock.lockFetchHighScore.RUnlock()
	return mock.calls.FetchHighScore
}
