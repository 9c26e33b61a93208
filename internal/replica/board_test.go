package replica

import (
	"testing"
	"time"

	"github.com/linkring/linkring/internal/domain"
)

func TestBoardReplaceSortsNewestFirst(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	board := NewBoard()

	board.Replace([]*domain.Link{
		{ID: "l1", CreatedAt: base.Add(10 * time.Minute)},
		{ID: "l3", CreatedAt: base.Add(30 * time.Minute)},
		{ID: "l2", CreatedAt: base.Add(20 * time.Minute)},
	})

	links := board.Links()
	wantOrder := []string{"l3", "l2", "l1"}
	for i, want := range wantOrder {
		if links[i].ID != want {
			t.Errorf("links[%d].ID = %s, want %s", i, links[i].ID, want)
		}
	}

	if board.Count() != 3 {
		t.Errorf("Count() = %d, want 3", board.Count())
	}
	if board.LastSync().IsZero() {
		t.Error("LastSync() should be set after Replace()")
	}
}

func TestBoardReplaceIsWholesale(t *testing.T) {
	board := NewBoard()
	board.Replace([]*domain.Link{{ID: "old"}})
	board.Replace([]*domain.Link{{ID: "new"}})

	if _, ok := board.Get("old"); ok {
		t.Error("link from previous snapshot should be gone after Replace()")
	}
	if _, ok := board.Get("new"); !ok {
		t.Error("link from latest snapshot should be present")
	}
	if board.Count() != 1 {
		t.Errorf("Count() = %d, want 1", board.Count())
	}
}

func TestUserStatePresenceDrivesOnboarded(t *testing.T) {
	state := NewUserState()

	if state.Onboarded() {
		t.Error("empty state should not be onboarded")
	}

	state.Set(&domain.Profile{UserID: "u1", Name: "Ann", Handle: "@ann"})
	if !state.Onboarded() {
		t.Error("state with profile should be onboarded")
	}
	if got := state.Profile().Name; got != "Ann" {
		t.Errorf("Profile().Name = %s, want Ann", got)
	}

	state.Clear()
	if state.Onboarded() {
		t.Error("cleared state should not be onboarded")
	}
	if state.Profile() != nil {
		t.Error("cleared state should have nil profile")
	}
}
