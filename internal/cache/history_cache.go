package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"pearlcard/internal/domain/models"
)

const historyKeyPrefix = "pearlcard:history:"

// Store is the subset of the redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// HistoryCache keeps a user's fetched journey records for a short TTL so
// paging and re-sorting do not refetch from the fare service. A nil
// *HistoryCache is valid and caches nothing.
type HistoryCache struct {
	store Store
	ttl   time.Duration
}

// NewHistoryCache returns nil when store is nil.
func NewHistoryCache(store Store, ttl time.Duration) *HistoryCache {
	if store == nil {
		return nil
	}
	if c, ok := store.(*redis.Client); ok && c == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &HistoryCache{store: store, ttl: ttl}
}

func historyKey(userID string) string {
	return historyKeyPrefix + strings.TrimSpace(userID)
}

// Get reports ok=false on a miss.
func (c *HistoryCache) Get(ctx context.Context, userID string) ([]models.JourneyRecord, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.store.Get(ctx, historyKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("history cache get: %w", err)
	}
	records := []models.JourneyRecord{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false, fmt.Errorf("history cache decode: %w", err)
	}
	return records, true, nil
}

func (c *HistoryCache) Set(ctx context.Context, userID string, records []models.JourneyRecord) error {
	if c == nil {
		return nil
	}
	if records == nil {
		records = []models.JourneyRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("history cache encode: %w", err)
	}
	return c.store.Set(ctx, historyKey(userID), raw, c.ttl).Err()
}

// Invalidate drops the user's cached history, e.g. after new journeys were
// submitted.
func (c *HistoryCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	return c.store.Del(ctx, historyKey(userID)).Err()
}
