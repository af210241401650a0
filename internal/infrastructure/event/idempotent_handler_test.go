package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) Release(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockStore) Close() error {
	return m.Called().Error(0)
}

func TestIdempotentHandler_SkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	inner := &recordingHandler{types: []string{"EntryRecorded"}}
	h := NewIdempotentHandler(inner, store, nil, nil)

	event := recorded(uuid.New(), "100")
	require.NoError(t, h.Handle(ctx, event))
	require.NoError(t, h.Handle(ctx, event))
	require.NoError(t, h.Handle(ctx, recorded(uuid.New(), "5")))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, IdempotencyStats{Processed: 2, Duplicate: 1}, h.Stats())
	assert.Equal(t, []string{"EntryRecorded"}, h.EventTypes())

	seen, err := store.IsProcessed(ctx, "event:"+event.EventID().String())
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestIdempotentHandler_ReleasesOnFailure(t *testing.T) {
	ctx := context.Background()
	event := recorded(uuid.New(), "100")
	key := "event:" + event.EventID().String()

	store := &mockStore{}
	store.On("MarkProcessed", ctx, key, time.Hour).Return(true, nil).Twice()
	store.On("Release", ctx, key).Return(nil).Once()

	inner := &recordingHandler{err: errors.New("db down")}
	h := NewIdempotentHandler(inner, store, &shared.IdempotencyConfig{Enabled: true, TTL: time.Hour}, nil)

	assert.Error(t, h.Handle(ctx, event))
	inner.err = nil
	assert.NoError(t, h.Handle(ctx, event))

	assert.Equal(t, 2, inner.count())
	assert.Equal(t, IdempotencyStats{Processed: 1, Failed: 1}, h.Stats())
	store.AssertExpectations(t)
}

func TestIdempotentHandler_StoreErrorsDoNotDropEvents(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("MarkProcessed", ctx, mock.Anything, mock.Anything).Return(false, errors.New("redis timeout"))

	inner := &recordingHandler{}
	h := NewIdempotentHandler(inner, store, nil, nil)
	require.NoError(t, h.Handle(ctx, recorded(uuid.New(), "1")))
	assert.Equal(t, 1, inner.count())
}

func TestIdempotentHandler_Disabled(t *testing.T) {
	store := &mockStore{}
	inner := &recordingHandler{}
	h := NewIdempotentHandler(inner, store, &shared.IdempotencyConfig{Enabled: false}, nil)

	event := recorded(uuid.New(), "1")
	require.NoError(t, h.Handle(context.Background(), event))
	require.NoError(t, h.Handle(context.Background(), event))
	assert.Equal(t, 2, inner.count())
	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}
