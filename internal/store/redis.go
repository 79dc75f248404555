package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

// CachedStore wraps a primary Store (PostgreSQL) with a Redis read-through
// cache. Writes go to the primary store and invalidate the cache; reads
// check Redis first then fall back to the primary. The app re-fetches the
// full collection after every mutation, so the collection snapshot is the
// hot key.
type CachedStore struct {
	primary Store
	rdb     *redis.Client
	ttl     time.Duration
}

// NewCachedStore creates a cached wrapper around a primary store.
func NewCachedStore(primary Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{
		primary: primary,
		rdb:     rdb,
		ttl:     ttl,
	}
}

// --- Read-through (check cache first) ---

func (s *CachedStore) ListWagers(ctx context.Context) ([]model.Wager, error) {
	data, err := s.rdb.Get(ctx, collectionKey()).Bytes()
	if err == nil {
		var wagers []model.Wager
		if json.Unmarshal(data, &wagers) == nil {
			return wagers, nil
		}
	}

	// Cache miss: read from primary.
	wagers, err := s.primary.ListWagers(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(wagers); err == nil {
		s.rdb.Set(ctx, collectionKey(), data, s.ttl)
	}
	return wagers, nil
}

func (s *CachedStore) GetWager(ctx context.Context, id string) (*model.Wager, error) {
	data, err := s.rdb.Get(ctx, wagerKey(id)).Bytes()
	if err == nil {
		var w model.Wager
		if json.Unmarshal(data, &w) == nil {
			return &w, nil
		}
	}

	w, err := s.primary.GetWager(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheWager(ctx, w)
	return w, nil
}

// --- Write-through (write to primary, invalidate cache) ---

func (s *CachedStore) CreateWagers(ctx context.Context, wagers []*model.Wager) error {
	if err := s.primary.CreateWagers(ctx, wagers); err != nil {
		return err
	}
	s.rdb.Del(ctx, collectionKey())
	return nil
}

func (s *CachedStore) UpdateTerms(ctx context.Context, id string, amount decimal.Decimal, odds int, description string, updatedAt time.Time) error {
	if err := s.primary.UpdateTerms(ctx, id, amount, odds, description, updatedAt); err != nil {
		return err
	}
	// Invalidate; next read re-populates.
	s.rdb.Del(ctx, collectionKey(), wagerKey(id))
	return nil
}

func (s *CachedStore) Resolve(ctx context.Context, id string, result string, resolvedAt time.Time) error {
	if err := s.primary.Resolve(ctx, id, result, resolvedAt); err != nil {
		return err
	}
	s.rdb.Del(ctx, collectionKey(), wagerKey(id))
	return nil
}

// --- Cache helpers ---

func (s *CachedStore) cacheWager(ctx context.Context, w *model.Wager) {
	if data, err := json.Marshal(w); err == nil {
		s.rdb.Set(ctx, wagerKey(w.ID), data, s.ttl)
	}
}

func collectionKey() string     { return "wagers:all" }
func wagerKey(id string) string { return fmt.Sprintf("wager:%s", id) }
