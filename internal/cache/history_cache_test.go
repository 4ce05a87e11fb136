package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pearlcard/internal/domain/models"
)

type memStore struct {
	data map[string][]byte
	ttls map[string]time.Duration
	err  error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memStore) Get(_ context.Context, key string) *redis.StringCmd {
	if m.err != nil {
		return redis.NewStringResult("", m.err)
	}
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (m *memStore) Set(_ context.Context, key string, value any, ttl time.Duration) *redis.StatusCmd {
	if m.err != nil {
		return redis.NewStatusResult("", m.err)
	}
	m.data[key] = value.([]byte)
	m.ttls[key] = ttl
	return redis.NewStatusResult("OK", nil)
}

func (m *memStore) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestHistoryCache_SetGetInvalidate(t *testing.T) {
	store := newMemStore()
	c := NewHistoryCache(store, time.Minute)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)

	records := []models.JourneyRecord{{ID: "1", UserID: "u-1", FromZone: "1", ToZone: "2", Fare: 55, Timestamp: "2024-05-01T08:00:00Z"}}
	require.NoError(t, c.Set(ctx, "u-1", records))
	assert.Equal(t, time.Minute, store.ttls["pearlcard:history:u-1"])

	got, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, records, got)

	require.NoError(t, c.Invalidate(ctx, "u-1"))
	_, ok, err = c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHistoryCache_EmptyHistoryIsAHit(t *testing.T) {
	c := NewHistoryCache(newMemStore(), 0)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "u-1", nil))
	got, ok, err := c.Get(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestHistoryCache_StoreErrorsSurface(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("connection refused")
	c := NewHistoryCache(store, time.Minute)

	_, ok, err := c.Get(context.Background(), "u-1")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Set(context.Background(), "u-1", nil))
}

func TestHistoryCache_NilIsNoop(t *testing.T) {
	var c *HistoryCache
	assert.Nil(t, NewHistoryCache(nil, time.Minute))
	assert.Nil(t, NewHistoryCache((*redis.Client)(nil), time.Minute))

	_, ok, err := c.Get(context.Background(), "u-1")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(context.Background(), "u-1", nil))
	assert.NoError(t, c.Invalidate(context.Background(), "u-1"))
}
