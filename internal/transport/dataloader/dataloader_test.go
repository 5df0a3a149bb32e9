package dataloader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashquiz/internal/domain"
	dl "github.com/heartmarshall/flashquiz/internal/transport/dataloader"
	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Mock repos
// ---------------------------------------------------------------------------

type mockCardCountRepo struct {
	mu      sync.Mutex
	batches [][]uuid.UUID
	result  map[uuid.UUID]int
	err     error
}

func (m *mockCardCountRepo) CountCardsBySetIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	m.mu.Lock()
	m.batches = append(m.batches, ids)
	m.mu.Unlock()
	return m.result, m.err
}

func (m *mockCardCountRepo) Batches() [][]uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

type mockSetScoreRepo struct {
	result map[uuid.UUID]int
	err    error
}

func (m *mockSetScoreRepo) HighScoresBySetIDs(_ context.Context, _ uuid.UUID, _ []uuid.UUID) (map[uuid.UUID]int, error) {
	return m.result, m.err
}

type mockSessionScoreRepo struct {
	gotUser uuid.UUID
	result  map[uuid.UUID]int
	err     error
}

func (m *mockSessionScoreRepo) BestScoresBySetIDs(_ context.Context, userID uuid.UUID, _ []uuid.UUID) (map[uuid.UUID]int, error) {
	m.gotUser = userID
	return m.result, m.err
}

func emptyRepos() *dl.Repos {
	return &dl.Repos{
		Cards:    &mockCardCountRepo{},
		Sets:     &mockSetScoreRepo{},
		Sessions: &mockSessionScoreRepo{},
	}
}

// ---------------------------------------------------------------------------
// Context / Middleware tests
// ---------------------------------------------------------------------------

func TestFromContext_ReturnsLoaders(t *testing.T) {
	t.Parallel()

	loaders := dl.NewLoaders(emptyRepos())
	ctx := dl.WithLoaders(context.Background(), loaders)

	assert.Equal(t, loaders, dl.FromContext(ctx))
}

func TestFromContext_PanicsWhenMissing(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() {
		dl.FromContext(context.Background())
	})
}

func TestMiddleware_FreshLoadersPerRequest(t *testing.T) {
	t.Parallel()

	var got []*dl.Loaders
	handler := dl.Middleware(emptyRepos())(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = append(got, dl.FromContext(r.Context()))
	}))

	for i := 0; i < 2; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sets", nil))
	}

	require.Len(t, got, 2)
	assert.NotNil(t, got[0].CardCountBySetID)
	assert.NotNil(t, got[0].HighScoreBySetID)
	assert.NotSame(t, got[0], got[1])
}

// ---------------------------------------------------------------------------
// Batch function tests
// ---------------------------------------------------------------------------

func TestCardCountLoader_BatchesKeys(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	repo := &mockCardCountRepo{result: map[uuid.UUID]int{a: 5, b: 2}}
	repos := emptyRepos()
	repos.Cards = repo

	loaders := dl.NewLoaders(repos)
	ctx := context.Background()

	thunks := []func() (int, error){
		loaders.CardCountBySetID.Load(ctx, a),
		loaders.CardCountBySetID.Load(ctx, b),
		loaders.CardCountBySetID.Load(ctx, c),
	}
	var got []int
	for _, th := range thunks {
		n, err := th()
		require.NoError(t, err)
		got = append(got, n)
	}

	assert.Equal(t, []int{5, 2, 0}, got, "missing set counts as zero cards")
	require.Len(t, repo.Batches(), 1)
	assert.ElementsMatch(t, []uuid.UUID{a, b, c}, repo.Batches()[0])
}

func TestCardCountLoader_Error(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	repos := emptyRepos()
	repos.Cards = &mockCardCountRepo{err: boom}

	_, err := dl.NewLoaders(repos).CardCountBySetID.Load(context.Background(), uuid.New())()
	assert.ErrorIs(t, err, boom)
}

func TestHighScoreLoader_MaxOfRegisterAndSessions(t *testing.T) {
	t.Parallel()

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	userID := uuid.New()
	sessions := &mockSessionScoreRepo{result: map[uuid.UUID]int{a: 4, b: 1}}
	repos := emptyRepos()
	repos.Sets = &mockSetScoreRepo{result: map[uuid.UUID]int{a: 3, b: 6}}
	repos.Sessions = sessions

	loaders := dl.NewLoaders(repos)
	ctx := ctxutil.WithUserID(context.Background(), userID)

	ta := loaders.HighScoreBySetID.Load(ctx, a)
	tb := loaders.HighScoreBySetID.Load(ctx, b)
	tc := loaders.HighScoreBySetID.Load(ctx, c)

	va, err := ta()
	require.NoError(t, err)
	vb, err := tb()
	require.NoError(t, err)
	vc, err := tc()
	require.NoError(t, err)

	assert.Equal(t, 4, va)
	assert.Equal(t, 6, vb)
	assert.Equal(t, 0, vc)
	assert.Equal(t, userID, sessions.gotUser)
}

func TestHighScoreLoader_ErrorOnMissingUserID(t *testing.T) {
	t.Parallel()

	_, err := dl.NewLoaders(emptyRepos()).HighScoreBySetID.Load(context.Background(), uuid.New())()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestHighScoreLoader_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("timeout")
	repos := emptyRepos()
	repos.Sessions = &mockSessionScoreRepo{err: boom}
	ctx := ctxutil.WithUserID(context.Background(), uuid.New())

	_, err := dl.NewLoaders(repos).HighScoreBySetID.Load(ctx, uuid.New())()
	assert.ErrorIs(t, err, boom)
}
