package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

// MemoryStore implements Store with an in-memory map. Used for testing and
// development. Not suitable for production (no persistence).
type MemoryStore struct {
	mu     sync.RWMutex
	wagers map[string]*model.Wager
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		wagers: make(map[string]*model.Wager),
	}
}

func (s *MemoryStore) ListWagers(_ context.Context) ([]model.Wager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wagers := make([]model.Wager, 0, len(s.wagers))
	for _, w := range s.wagers {
		wagers = append(wagers, *w)
	}
	// Deterministic order for snapshot consumers.
	sort.Slice(wagers, func(i, j int) bool {
		if wagers[i].CreatedAt.Equal(wagers[j].CreatedAt) {
			return wagers[i].ID < wagers[j].ID
		}
		return wagers[i].CreatedAt.Before(wagers[j].CreatedAt)
	})
	return wagers, nil
}

func (s *MemoryStore) GetWager(_ context.Context, id string) (*model.Wager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.wagers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	copy := *w
	return &copy, nil
}

func (s *MemoryStore) CreateWagers(_ context.Context, wagers []*model.Wager) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range wagers {
		if _, exists := s.wagers[w.ID]; exists {
			return fmt.Errorf("wager %s already exists", w.ID)
		}
	}
	// All-or-nothing: insert only after the whole batch validates.
	for _, w := range wagers {
		copy := *w
		s.wagers[w.ID] = &copy
	}
	return nil
}

func (s *MemoryStore) UpdateTerms(_ context.Context, id string, amount decimal.Decimal, odds int, description string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wagers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if w.Status != model.StatusOpen {
		return fmt.Errorf("%w: %s", ErrNotOpen, id)
	}
	w.Amount = amount
	w.Odds = odds
	w.Description = description
	w.UpdatedAt = updatedAt
	return nil
}

func (s *MemoryStore) Resolve(_ context.Context, id string, result string, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.wagers[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if w.Status != model.StatusOpen {
		return fmt.Errorf("%w: %s", ErrNotOpen, id)
	}
	w.Status = model.StatusResolved
	w.Result = result
	w.UpdatedAt = resolvedAt
	return nil
}
