// Package model defines the core domain types shared across the wager ledger.
// All monetary values use shopspring/decimal — never float64 for money.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wager statuses. The only legal transition is open → resolved.
const (
	StatusOpen     = "open"
	StatusResolved = "resolved"
)

// Wager results, present only once a wager is resolved.
const (
	ResultFromWins = "from_wins"
	ResultToWins   = "to_wins"
	ResultPush     = "push"
)

// Wager is the sole persisted entity: a directional bet from one roster
// participant to another. (A→B) and (B→A) are distinct wagers.
// Result is set exactly once, when Status flips to resolved, and is never
// altered afterward.
type Wager struct {
	ID          string          `json:"id" db:"id"`
	FromUser    string          `json:"from_user" db:"from_user"`
	ToUser      string          `json:"to_user" db:"to_user"`
	Amount      decimal.Decimal `json:"amount" db:"amount"` // stake risked by FromUser
	Odds        int             `json:"odds" db:"odds"`     // signed American odds, never zero
	Description string          `json:"description" db:"description"`
	Status      string          `json:"status" db:"status"`
	Result      string          `json:"result,omitempty" db:"result"`
	CreatedBy   string          `json:"created_by" db:"created_by"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsOpen reports whether the wager is still unresolved.
func (w Wager) IsOpen() bool {
	return w.Status == StatusOpen
}

// Involves reports whether the user is on either side of the wager.
func (w Wager) Involves(user string) bool {
	return w.FromUser == user || w.ToUser == user
}

// CellStat aggregates the open wagers for one directed (from, to) pair.
type CellStat struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// Record is a user's win/loss/push tally over resolved wagers.
// Pushes count toward neither wins nor losses.
type Record struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Pushes int `json:"pushes"`
}

// Standing is one user's risk rank entry: exposure, a relative tier (0–3,
// scaled against the single highest-exposure user), and badge markers.
type Standing struct {
	User     string          `json:"user"`
	Exposure decimal.Decimal `json:"exposure"`
	Tier     int             `json:"tier"`
	Crown    bool            `json:"crown"`
	Warning  bool            `json:"warning"`
}

// Event kinds for the activity feed.
const (
	EventCreated  = "created"
	EventResolved = "resolved"
)

// Event is one activity feed item derived from a wager. A wager expands to a
// created event and, once resolved, a resolved event carrying the outcome word
// (win/loss/push) framed from the placer's perspective.
type Event struct {
	WagerID     string          `json:"wager_id"`
	Kind        string          `json:"kind"`
	FromUser    string          `json:"from_user"`
	ToUser      string          `json:"to_user"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Outcome     string          `json:"outcome,omitempty"` // "win", "loss", "push"
	At          time.Time       `json:"at"`
}
