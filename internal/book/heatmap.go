package book

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

// Heatmap buckets for grid cell tinting.
const (
	BucketNone   = "none"
	BucketLow    = "low"
	BucketMedium = "medium"
	BucketHigh   = "high"
)

// Thresholds is a data-driven tercile split of the nonzero open cell amounts.
// It is intentionally relative, not a fixed dollar scale, so the grid stays
// visually discriminating regardless of stake sizes in play. Recompute it
// whenever the wager collection changes.
type Thresholds struct {
	Low    decimal.Decimal `json:"low"`
	Medium decimal.Decimal `json:"medium"`
}

// HeatThresholds collects the nonzero directional open cell amounts over all
// ordered pairs of distinct roster users, sorts them ascending, and takes the
// values at indices ⌊n/3⌋ and ⌊2n/3⌋ as the low and medium thresholds.
func HeatThresholds(ws []model.Wager, roster []string) Thresholds {
	var amounts []decimal.Decimal
	for _, from := range roster {
		for _, to := range roster {
			if from == to {
				continue
			}
			if a := Cell(ws, from, to).Amount; a.IsPositive() {
				amounts = append(amounts, a)
			}
		}
	}
	if len(amounts) == 0 {
		return Thresholds{Low: decimal.Zero, Medium: decimal.Zero}
	}

	sort.Slice(amounts, func(i, j int) bool {
		return amounts[i].LessThan(amounts[j])
	})

	n := len(amounts)
	return Thresholds{
		Low:    amounts[n/3],
		Medium: amounts[2*n/3],
	}
}

// Bucket classifies one cell amount against the thresholds:
// zero → none; (0, low] → low; (low, medium] → medium; above → high.
func (t Thresholds) Bucket(amount decimal.Decimal) string {
	if !amount.IsPositive() {
		return BucketNone
	}
	if amount.LessThanOrEqual(t.Low) {
		return BucketLow
	}
	if amount.LessThanOrEqual(t.Medium) {
		return BucketMedium
	}
	return BucketHigh
}
