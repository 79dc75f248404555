// Package book implements the wager accounting engine: pure, stateless
// queries over a flat snapshot of the wager collection. No function mutates
// the snapshot or keeps hidden state.
//
// All monetary values use shopspring/decimal — never float64 for money.
package book

import (
	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
	"github.com/sidebook/wager-engine/internal/odds"
)

// riskAmount is the counterparty-equivalent amount for one wager:
// stake × RiskMultiplier, branch chosen by the stored odds sign.
func riskAmount(w model.Wager) decimal.Decimal {
	return w.Amount.Mul(odds.Odds(w.Odds).RiskMultiplier())
}

// Exposure sums amount × RiskMultiplier over the user's OPEN placed wagers.
// Only wagers where the user is the placer count; being a counterparty is not
// exposure. Resolved wagers never contribute. Always ≥ 0.
func Exposure(ws []model.Wager, user string) decimal.Decimal {
	total := decimal.Zero
	for _, w := range ws {
		if w.IsOpen() && w.FromUser == user {
			total = total.Add(riskAmount(w))
		}
	}
	return total
}

// Cell aggregates the open wagers with exactly the directed (from, to) pair.
// Asymmetric: Cell(A, B) and Cell(B, A) are independent grid cells.
func Cell(ws []model.Wager, from, to string) model.CellStat {
	stat := model.CellStat{Amount: decimal.Zero}
	for _, w := range ws {
		if w.IsOpen() && w.FromUser == from && w.ToUser == to {
			stat.Amount = stat.Amount.Add(w.Amount)
			stat.Count++
		}
	}
	return stat
}

// Between returns all wagers between the two users in either direction,
// optionally restricted to open wagers. The detail panel passes
// openOnly=false so resolved history stays visible.
func Between(ws []model.Wager, u1, u2 string, openOnly bool) []model.Wager {
	var out []model.Wager
	for _, w := range ws {
		if openOnly && !w.IsOpen() {
			continue
		}
		if (w.FromUser == u1 && w.ToUser == u2) || (w.FromUser == u2 && w.ToUser == u1) {
			out = append(out, w)
		}
	}
	return out
}

// Returns computes realized profit/loss for the user over resolved wagers.
// The from-side settlement amount is p = amount × RiskMultiplier:
//   - push contributes 0
//   - as placer: +amount on from_wins, else −p
//   - as counterparty: +p on to_wins, else −amount
func Returns(ws []model.Wager, user string) decimal.Decimal {
	total := decimal.Zero
	for _, w := range ws {
		if w.IsOpen() || !w.Involves(user) || w.Result == model.ResultPush {
			continue
		}
		p := riskAmount(w)
		if w.FromUser == user {
			if w.Result == model.ResultFromWins {
				total = total.Add(w.Amount)
			} else {
				total = total.Sub(p)
			}
		} else {
			if w.Result == model.ResultToWins {
				total = total.Add(p)
			} else {
				total = total.Sub(w.Amount)
			}
		}
	}
	return total
}

// RecordFor tallies the user's wins, losses, and pushes over resolved wagers.
// Win/loss is symmetric: from_wins is a win for the placer and a loss for the
// counterparty, and vice versa for to_wins.
func RecordFor(ws []model.Wager, user string) model.Record {
	var rec model.Record
	for _, w := range ws {
		if w.IsOpen() || !w.Involves(user) {
			continue
		}
		switch w.Result {
		case model.ResultPush:
			rec.Pushes++
		case model.ResultFromWins:
			if w.FromUser == user {
				rec.Wins++
			} else {
				rec.Losses++
			}
		case model.ResultToWins:
			if w.ToUser == user {
				rec.Wins++
			} else {
				rec.Losses++
			}
		}
	}
	return rec
}

// TotalWagered approximates the user's handle over resolved wagers: the stake
// when the user placed, the counterparty-equivalent amount when they took.
func TotalWagered(ws []model.Wager, user string) decimal.Decimal {
	total := decimal.Zero
	for _, w := range ws {
		if w.IsOpen() {
			continue
		}
		if w.FromUser == user {
			total = total.Add(w.Amount)
		} else if w.ToUser == user {
			total = total.Add(riskAmount(w))
		}
	}
	return total
}
