// Package store defines the persistence interface for the wager ledger.
// Implementations include PostgreSQL (source of truth), Redis (read-through
// cache), and in-memory (for testing).
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

var (
	// ErrNotFound is returned when no wager has the requested ID.
	ErrNotFound = errors.New("store: wager not found")

	// ErrNotOpen is returned when an edit or resolution targets a wager
	// that has already been resolved.
	ErrNotOpen = errors.New("store: wager is not open")
)

// Store is the persistence interface. PostgreSQL is the source of truth;
// Redis provides a read-through cache layer.
type Store interface {
	// ListWagers returns the full wager collection. Callers derive every
	// aggregate from this snapshot.
	ListWagers(ctx context.Context) ([]model.Wager, error)

	// GetWager retrieves a wager by its ID.
	GetWager(ctx context.Context, id string) (*model.Wager, error)

	// CreateWagers persists a batch of new wagers atomically. Fan-out
	// creation (one placer, K opponents) inserts K rows in one call.
	CreateWagers(ctx context.Context, wagers []*model.Wager) error

	// UpdateTerms replaces amount, odds, and description on an OPEN wager.
	// Returns ErrNotOpen for resolved wagers.
	UpdateTerms(ctx context.Context, id string, amount decimal.Decimal, odds int, description string, updatedAt time.Time) error

	// Resolve flips an open wager to resolved and sets its result.
	// The transition is one-way; a second call returns ErrNotOpen.
	Resolve(ctx context.Context, id string, result string, resolvedAt time.Time) error
}
