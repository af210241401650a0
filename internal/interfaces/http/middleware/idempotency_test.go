package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIdempotencyStore struct {
	mock.Mock
}

func (m *mockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockIdempotencyStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockIdempotencyStore) Close() error { return nil }

func newIdempotentRouter(cfg IdempotencyConfig, status *int) (*gin.Engine, *int) {
	calls := 0
	r := gin.New()
	r.Use(RequestID(), Idempotency(cfg))
	handler := func(c *gin.Context) {
		calls++
		c.Status(*status)
	}
	r.POST("/api/v1/transactions", handler)
	r.POST("/api/v1/transactions/:id/settle", handler)
	r.GET("/api/v1/transactions", handler)
	return r, &calls
}

func post(r http.Handler, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{}"))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_RejectsReplay(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	status := http.StatusCreated
	r, calls := newIdempotentRouter(IdempotencyConfig{Store: store, TTL: time.Hour}, &status)

	first := post(r, "/api/v1/transactions", "k-1")
	assert.Equal(t, http.StatusCreated, first.Code)

	replay := post(r, "/api/v1/transactions", "k-1")
	assert.Equal(t, http.StatusConflict, replay.Code)
	assert.Equal(t, "true", replay.Header().Get(IdempotencyReplayHeader))
	assert.Contains(t, replay.Body.String(), "DUPLICATE_REQUEST")
	assert.Equal(t, 1, *calls)

	t.Run("same key on another route is independent", func(t *testing.T) {
		w := post(r, "/api/v1/transactions/abc/settle", "k-1")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("requests without a key pass", func(t *testing.T) {
		before := *calls
		post(r, "/api/v1/transactions", "")
		post(r, "/api/v1/transactions", "")
		assert.Equal(t, before+2, *calls)
	})
}

func TestIdempotency_FailedRequestReleasesKey(t *testing.T) {
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	status := http.StatusUnprocessableEntity
	r, calls := newIdempotentRouter(IdempotencyConfig{Store: store}, &status)

	assert.Equal(t, http.StatusUnprocessableEntity, post(r, "/api/v1/transactions", "retry-me").Code)

	status = http.StatusCreated
	assert.Equal(t, http.StatusCreated, post(r, "/api/v1/transactions", "retry-me").Code)
	assert.Equal(t, 2, *calls)
	assert.Equal(t, http.StatusConflict, post(r, "/api/v1/transactions", "retry-me").Code)
}

func TestIdempotency_StoreErrorFailsOpen(t *testing.T) {
	store := new(mockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, 24*time.Hour).Return(false, errors.New("redis down"))
	status := http.StatusCreated
	r, calls := newIdempotentRouter(IdempotencyConfig{Store: store}, &status)

	assert.Equal(t, http.StatusCreated, post(r, "/api/v1/transactions", "k").Code)
	assert.Equal(t, 1, *calls)
	store.AssertExpectations(t)
}

func TestIdempotency_KeyShape(t *testing.T) {
	store := new(mockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, "anonymous:POST:/api/v1/transactions/:id/settle:abc", time.Minute).
		Return(true, nil)
	status := http.StatusOK
	r, _ := newIdempotentRouter(IdempotencyConfig{Store: store, TTL: time.Minute}, &status)

	require.Equal(t, http.StatusOK, post(r, "/api/v1/transactions/42/settle", "abc").Code)
	store.AssertExpectations(t)

	t.Run("oversized key", func(t *testing.T) {
		w := post(r, "/api/v1/transactions", strings.Repeat("x", maxIdempotencyKeyLen+1))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestIdempotency_NilStore(t *testing.T) {
	status := http.StatusCreated
	r, calls := newIdempotentRouter(IdempotencyConfig{}, &status)
	post(r, "/api/v1/transactions", "k")
	post(r, "/api/v1/transactions", "k")
	assert.Equal(t, 2, *calls)
}
