package catalog

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/heartmarshall/flashquiz/internal/domain"
)

var _ setRepo = &setRepoMock{}

type setRepoMock struct {
	CreateFunc     func(ctx context.Context, set *domain.Set) (*domain.Set, error)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID) ([]domain.Set, error)
	DeleteFunc     func(ctx context.Context, userID, setID uuid.UUID) error

	mu    sync.Mutex
	calls struct {
		Create     []*domain.Set
		ListByUser []uuid.UUID
		Delete     []uuid.UUID
	}
}

func (mock *setRepoMock) Create(ctx context.Context, set *domain.Set) (*domain.Set, error) {
	mock.mu.Lock()
	mock.calls.Create = append(mock.calls.Create, set)
	mock.mu.Unlock()
	return mock.CreateFunc(ctx, set)
}

func (mock *setRepoMock) CreateCalls() []*domain.Set {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.Create
}

func (mock *setRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Set, error) {
	mock.mu.Lock()
	mock.calls.ListByUser = append(mock.calls.ListByUser, userID)
	mock.mu.Unlock()
	return mock.ListByUserFunc(ctx, userID)
}

func (mock *setRepoMock) ListByUserCalls() []uuid.UUID {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.ListByUser
}

func (mock *setRepoMock) Delete(ctx context.Context, userID, setID uuid.UUID) error {
	mock.mu.Lock()
	mock.calls.Delete = append(mock.calls.Delete, setID)
	mock.mu.Unlock()
	return mock.DeleteFunc(ctx, userID, setID)
}

func (mock *setRepoMock) DeleteCalls() []uuid.UUID {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls.Delete
}

var _ cardRepo = &cardRepoMock{}

type cardRepoMock struct {
	CreateBatchFunc func(ctx context.Context, cards []domain.Card) error

	mu    sync.Mutex
	calls [][]domain.Card
}

func (mock *cardRepoMock) CreateBatch(ctx context.Context, cards []domain.Card) error {
	mock.mu.Lock()
	mock.calls = append(mock.calls, cards)
	mock.mu.Unlock()
	return mock.CreateBatchFunc(ctx, cards)
}

func (mock *cardRepoMock) CreateBatchCalls() [][]domain.Card {
	mock.mu.Lock()
	defer mock.mu.Unlock()
	return mock.calls
}

// txManagerMock runs fn inline.
type txManagerMock struct {
	runs int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.runs++
	return fn(ctx)
}
