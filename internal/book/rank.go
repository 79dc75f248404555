package book

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sidebook/wager-engine/internal/model"
)

// Tier ratio cut points against the single highest exposure.
var (
	tierQuarter      = decimal.NewFromFloat(0.25)
	tierHalf         = decimal.NewFromFloat(0.5)
	tierThreeQuarter = decimal.NewFromFloat(0.75)
)

// Standings ranks the roster by exposure descending and assigns relative
// tiers and badge markers: the top exposed user (when any exposure exists)
// gets the crown, and the next two of the top three nonzero-exposure users
// get warning markers. Ties keep roster order (stable sort); the roster is
// injected configuration, never inferred from wager data.
func Standings(ws []model.Wager, roster []string) []model.Standing {
	standings := make([]model.Standing, 0, len(roster))
	for _, user := range roster {
		standings = append(standings, model.Standing{
			User:     user,
			Exposure: Exposure(ws, user),
		})
	}

	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Exposure.GreaterThan(standings[j].Exposure)
	})

	if len(standings) == 0 {
		return standings
	}

	max := standings[0].Exposure
	for i := range standings {
		standings[i].Tier = tier(standings[i].Exposure, max)
	}

	if max.IsPositive() {
		standings[0].Crown = true
		for i := 1; i < len(standings) && i < 3; i++ {
			if standings[i].Exposure.IsPositive() {
				standings[i].Warning = true
			}
		}
	}

	return standings
}

// tier maps an exposure ratio against the maximum to a 0–3 bucket:
// <0.25 → 0, <0.5 → 1, <0.75 → 2, ≥0.75 → 3. Zero exposure (or an empty
// board) is always tier 0.
func tier(exposure, max decimal.Decimal) int {
	if !max.IsPositive() || !exposure.IsPositive() {
		return 0
	}
	ratio := exposure.Div(max)
	switch {
	case ratio.LessThan(tierQuarter):
		return 0
	case ratio.LessThan(tierHalf):
		return 1
	case ratio.LessThan(tierThreeQuarter):
		return 2
	default:
		return 3
	}
}
