package book

import (
	"sort"
	"time"

	"github.com/sidebook/wager-engine/internal/model"
)

// DefaultFeedLimit is the number of items the activity panel shows.
const DefaultFeedLimit = 8

// outcomeWords maps a wager result to the feed's outcome word. The framing is
// fixed from the placer's perspective, not per-viewer.
var outcomeWords = map[string]string{
	model.ResultFromWins: "win",
	model.ResultToWins:   "loss",
	model.ResultPush:     "push",
}

// Feed expands each wager into up to two timestamped events (created, and
// resolved once settled) and returns the most recent limit events in
// descending time order. The resolved timestamp falls back from UpdatedAt to
// CreatedAt to now.
func Feed(ws []model.Wager, limit int, now time.Time) []model.Event {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}

	events := make([]model.Event, 0, 2*len(ws))
	for _, w := range ws {
		events = append(events, model.Event{
			WagerID:     w.ID,
			Kind:        model.EventCreated,
			FromUser:    w.FromUser,
			ToUser:      w.ToUser,
			Amount:      w.Amount,
			Description: w.Description,
			At:          w.CreatedAt,
		})

		if w.IsOpen() {
			continue
		}
		at := w.UpdatedAt
		if at.IsZero() {
			at = w.CreatedAt
		}
		if at.IsZero() {
			at = now
		}
		events = append(events, model.Event{
			WagerID:     w.ID,
			Kind:        model.EventResolved,
			FromUser:    w.FromUser,
			ToUser:      w.ToUser,
			Amount:      w.Amount,
			Description: w.Description,
			Outcome:     outcomeWords[w.Result],
			At:          at,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].At.After(events[j].At)
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events
}
