// Package odds models signed American odds and the multipliers that drive
// exposure and settlement math.
//
// Sign convention: positive odds (+N) mean a stake of 100 wins N; negative
// odds (-N) mean a stake of N wins 100. Zero is invalid.
//
// The two multipliers are the two sides of one bet: the "from" user risks the
// stake itself; the "to" user's equivalent risk/win amount is
// stake × PayoutMultiplier when odds are positive, or stake × ToStakeMultiplier
// when negative. RiskMultiplier picks the branch matching the stored sign so
// callers cannot mix them up.
//
// All multiplier results use shopspring/decimal — never float64 for money.
package odds

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrZero is returned when American odds of zero are supplied.
	ErrZero = errors.New("odds: american odds cannot be zero")

	// ErrNotPositive is returned by NewPositive for zero or negative odds.
	ErrNotPositive = errors.New("odds: american odds must be positive")
)

var hundred = decimal.NewFromInt(100)

// Odds is a validated signed American odds value.
type Odds int

// New validates signed American odds. The only invalid value is zero.
func New(n int) (Odds, error) {
	if n == 0 {
		return 0, ErrZero
	}
	return Odds(n), nil
}

// NewPositive validates positive-only American odds for contexts that
// restrict the signed model to odds > 0.
func NewPositive(n int) (Odds, error) {
	if n <= 0 {
		return 0, ErrNotPositive
	}
	return Odds(n), nil
}

// IsPositive reports whether the odds are on the positive branch.
func (o Odds) IsPositive() bool {
	return o > 0
}

// PayoutMultiplier returns 1 + odds/100. Meaningful for positive odds only;
// callers on the negative branch use ToStakeMultiplier.
func (o Odds) PayoutMultiplier() decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromInt(int64(o)).Div(hundred))
}

// ToStakeMultiplier returns 100/|odds|: the "to" side's required
// stake-equivalent per unit of "from" stake, for negative odds.
func (o Odds) ToStakeMultiplier() decimal.Decimal {
	abs := int64(o)
	if abs < 0 {
		abs = -abs
	}
	return hundred.Div(decimal.NewFromInt(abs))
}

// RiskMultiplier selects the branch matching the stored sign: the counterparty
// amount per unit of stake. stake × RiskMultiplier is both what the "to" side
// stands to win and what the "from" side forfeits on a loss.
func (o Odds) RiskMultiplier() decimal.Decimal {
	if o > 0 {
		return o.PayoutMultiplier()
	}
	return o.ToStakeMultiplier()
}
