package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/flashquiz/pkg/ctxutil"
)

var _ tokenValidator = &tokenValidatorMock{}

type tokenValidatorMock struct {
	ValidateTokenFunc func(ctx context.Context, token string) (uuid.UUID, error)

	mu    sync.RWMutex
	calls []string
}

func (mock *tokenValidatorMock) ValidateToken(ctx context.Context, token string) (uuid.UUID, error) {
	if mock.ValidateTokenFunc == nil {
		panic("tokenValidatorMock.ValidateTokenFunc: method is nil but tokenValidator.ValidateToken was just called")
	}
	mock.mu.Lock()
	mock.calls = append(mock.calls, token)
	mock.mu.Unlock()
	return mock.ValidateTokenFunc(ctx, token)
}

func (mock *tokenValidatorMock) ValidateTokenCalls() []string {
	mock.mu.RLock()
	defer mock.mu.RUnlock()
	return mock.calls
}

func validatorFor(userID uuid.UUID) *tokenValidatorMock {
	return &tokenValidatorMock{
		ValidateTokenFunc: func(_ context.Context, token string) (uuid.UUID, error) {
			if token == "valid-token" {
				return userID, nil
			}
			return uuid.Nil, errors.New("invalid token")
		},
	}
}

func TestAuth_ValidToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	var got uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ctxutil.UserIDFromCtx(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	Auth(validatorFor(userID))(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, got)
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	v := validatorFor(userID)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	rec := httptest.NewRecorder()
	Auth(v)(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"valid-token"}, v.ValidateTokenCalls())
}

func TestAuth_NoHeaderIsAnonymous(t *testing.T) {
	t.Parallel()

	v := validatorFor(uuid.New())
	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, ok := ctxutil.UserIDFromCtx(r.Context())
		assert.False(t, ok, "anonymous request must not carry a user")
	})

	rec := httptest.NewRecorder()
	Auth(v)(handler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Empty(t, v.ValidateTokenCalls())
}

func TestAuth_Rejects(t *testing.T) {
	t.Parallel()

	for name, header := range map[string]string{
		"invalid token": "Bearer nope",
		"wrong scheme":  "Basic dXNlcjpwYXNz",
		"missing token": "Bearer",
		"bare token":    "valid-token",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("handler must not run")
			})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", header)
			rec := httptest.NewRecorder()
			Auth(validatorFor(uuid.New()))(handler).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"invalid token"}`, rec.Body.String())
			assert.Contains(t, rec.Header().Get("WWW-Authenticate"), "invalid_token")
		})
	}
}

func TestAuth_ReportsUserToLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	userID := uuid.New()

	handler := Chain(Logger(logger), Auth(validatorFor(userID)))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.Contains(t, buf.String(), `"user_id":"`+userID.String()+`"`)
}
