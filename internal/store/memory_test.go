package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

func d(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

func newWager(id string, createdAt time.Time) *model.Wager {
	return &model.Wager{
		ID:          id,
		FromUser:    "alice",
		ToUser:      "bob",
		Amount:      d(100),
		Odds:        150,
		Description: "test",
		Status:      model.StatusOpen,
		CreatedBy:   "alice",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestMemoryStore_CreateAndList(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	batch := []*model.Wager{
		newWager("w2", base.Add(time.Minute)),
		newWager("w1", base),
	}
	if err := ms.CreateWagers(ctx, batch); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	wagers, err := ms.ListWagers(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(wagers) != 2 {
		t.Fatalf("expected 2 wagers, got %d", len(wagers))
	}
	// Creation order, oldest first.
	if wagers[0].ID != "w1" || wagers[1].ID != "w2" {
		t.Errorf("unexpected order: %s, %s", wagers[0].ID, wagers[1].ID)
	}
}

func TestMemoryStore_CreateRejectsDuplicateBatch(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	base := time.Now().UTC()

	if err := ms.CreateWagers(ctx, []*model.Wager{newWager("w1", base)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Duplicate in the batch: nothing from the batch may land.
	err := ms.CreateWagers(ctx, []*model.Wager{newWager("w9", base), newWager("w1", base)})
	if err == nil {
		t.Fatal("expected error for duplicate id")
	}
	if _, err := ms.GetWager(ctx, "w9"); !errors.Is(err, ErrNotFound) {
		t.Error("failed batch must not partially insert")
	}
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	ms.CreateWagers(ctx, []*model.Wager{newWager("w1", time.Now().UTC())})

	w, err := ms.GetWager(ctx, "w1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	w.Description = "mutated"

	fresh, _ := ms.GetWager(ctx, "w1")
	if fresh.Description != "test" {
		t.Error("mutating a returned wager must not affect the store")
	}
}

func TestMemoryStore_UpdateTerms(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	ms.CreateWagers(ctx, []*model.Wager{newWager("w1", time.Now().UTC())})

	at := time.Now().UTC().Add(time.Minute)
	if err := ms.UpdateTerms(ctx, "w1", d(250), -110, "revised", at); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	w, _ := ms.GetWager(ctx, "w1")
	if !w.Amount.Equal(d(250)) || w.Odds != -110 || w.Description != "revised" {
		t.Errorf("terms not applied: %+v", w)
	}
	if !w.UpdatedAt.Equal(at) {
		t.Errorf("updated_at = %s, want %s", w.UpdatedAt, at)
	}
}

func TestMemoryStore_UpdateTermsRejectsResolved(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	ms.CreateWagers(ctx, []*model.Wager{newWager("w1", time.Now().UTC())})
	ms.Resolve(ctx, "w1", model.ResultPush, time.Now().UTC())

	err := ms.UpdateTerms(ctx, "w1", d(1), 100, "late edit", time.Now().UTC())
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen, got %v", err)
	}
}

func TestMemoryStore_ResolveOneWay(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()
	ms.CreateWagers(ctx, []*model.Wager{newWager("w1", time.Now().UTC())})

	at := time.Now().UTC()
	if err := ms.Resolve(ctx, "w1", model.ResultToWins, at); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	w, _ := ms.GetWager(ctx, "w1")
	if w.Status != model.StatusResolved || w.Result != model.ResultToWins {
		t.Errorf("resolution not applied: %+v", w)
	}

	// The transition never reverses or repeats.
	err := ms.Resolve(ctx, "w1", model.ResultFromWins, at.Add(time.Minute))
	if !errors.Is(err, ErrNotOpen) {
		t.Errorf("expected ErrNotOpen on double resolution, got %v", err)
	}
	w, _ = ms.GetWager(ctx, "w1")
	if w.Result != model.ResultToWins {
		t.Errorf("result must never change after resolution: %s", w.Result)
	}
}

func TestMemoryStore_UnknownWager(t *testing.T) {
	ms := NewMemoryStore()
	ctx := context.Background()

	if _, err := ms.GetWager(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := ms.Resolve(ctx, "missing", model.ResultPush, time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := ms.UpdateTerms(ctx, "missing", d(1), 100, "x", time.Now()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
