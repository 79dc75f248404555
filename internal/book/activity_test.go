package book

import (
	"fmt"
	"testing"
	"time"

	"github.com/sidebook/wager-engine/internal/model"
)

func TestFeed_CreatedAndResolvedEvents(t *testing.T) {
	w := resolvedWager("w1", "alice", "bob", 100, 150, model.ResultFromWins)

	events := Feed([]model.Wager{w}, 8, baseTime.Add(2*time.Hour))
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	// Resolution happened after creation, so it leads the feed.
	if events[0].Kind != model.EventResolved {
		t.Errorf("first event = %s, want resolved", events[0].Kind)
	}
	if events[0].Outcome != "win" {
		t.Errorf("outcome = %q, want win (framed from the placer)", events[0].Outcome)
	}
	if events[1].Kind != model.EventCreated {
		t.Errorf("second event = %s, want created", events[1].Kind)
	}
	if events[1].Outcome != "" {
		t.Errorf("created event carries no outcome, got %q", events[1].Outcome)
	}
}

func TestFeed_OutcomeWords(t *testing.T) {
	tests := []struct {
		result string
		want   string
	}{
		{model.ResultFromWins, "win"},
		{model.ResultToWins, "loss"},
		{model.ResultPush, "push"},
	}
	for _, tt := range tests {
		ws := []model.Wager{resolvedWager("w1", "alice", "bob", 10, 100, tt.result)}
		events := Feed(ws, 8, baseTime)
		if events[0].Outcome != tt.want {
			t.Errorf("outcome(%s) = %q, want %q", tt.result, events[0].Outcome, tt.want)
		}
	}
}

func TestFeed_DescendingOrder(t *testing.T) {
	var ws []model.Wager
	for i := 0; i < 3; i++ {
		w := openWager(fmt.Sprintf("w%d", i), "alice", "bob", 10, 100)
		w.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
		ws = append(ws, w)
	}

	events := Feed(ws, 8, baseTime)
	for i := 1; i < len(events); i++ {
		if events[i].At.After(events[i-1].At) {
			t.Errorf("feed out of order at %d: %s after %s", i, events[i].At, events[i-1].At)
		}
	}
	if events[0].WagerID != "w2" {
		t.Errorf("newest event should lead, got %s", events[0].WagerID)
	}
}

func TestFeed_TruncatesToLimit(t *testing.T) {
	var ws []model.Wager
	for i := 0; i < 10; i++ {
		w := openWager(fmt.Sprintf("w%d", i), "alice", "bob", 10, 100)
		w.CreatedAt = baseTime.Add(time.Duration(i) * time.Minute)
		ws = append(ws, w)
	}

	events := Feed(ws, 8, baseTime)
	if len(events) != 8 {
		t.Fatalf("expected 8 events, got %d", len(events))
	}
	// The two oldest creations fall off.
	for _, e := range events {
		if e.WagerID == "w0" || e.WagerID == "w1" {
			t.Errorf("oldest events should be truncated, found %s", e.WagerID)
		}
	}
}

func TestFeed_ResolvedTimestampFallbacks(t *testing.T) {
	now := baseTime.Add(24 * time.Hour)

	// No UpdatedAt → fall back to CreatedAt.
	w := resolvedWager("w1", "alice", "bob", 10, 100, model.ResultPush)
	w.UpdatedAt = time.Time{}
	events := Feed([]model.Wager{w}, 8, now)
	for _, e := range events {
		if e.Kind == model.EventResolved && !e.At.Equal(w.CreatedAt) {
			t.Errorf("resolved at = %s, want CreatedAt fallback %s", e.At, w.CreatedAt)
		}
	}

	// Neither timestamp → fall back to now.
	w.CreatedAt = time.Time{}
	events = Feed([]model.Wager{w}, 8, now)
	for _, e := range events {
		if e.Kind == model.EventResolved && !e.At.Equal(now) {
			t.Errorf("resolved at = %s, want now fallback %s", e.At, now)
		}
	}
}

func TestFeed_DefaultLimit(t *testing.T) {
	var ws []model.Wager
	for i := 0; i < 12; i++ {
		ws = append(ws, openWager(fmt.Sprintf("w%d", i), "alice", "bob", 10, 100))
	}

	events := Feed(ws, 0, baseTime)
	if len(events) != DefaultFeedLimit {
		t.Errorf("expected default limit %d, got %d", DefaultFeedLimit, len(events))
	}
}
