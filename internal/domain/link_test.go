package domain

import (
	"testing"
	"time"
)

func TestSortLinks(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	links := []*Link{
		{ID: "a", CreatedAt: base.Add(10 * time.Minute)},
		{ID: "b", CreatedAt: base.Add(30 * time.Minute)},
		{ID: "c", CreatedAt: base.Add(20 * time.Minute)},
	}

	SortLinks(links)

	wantOrder := []string{"b", "c", "a"}
	for i, want := range wantOrder {
		if links[i].ID != want {
			t.Errorf("links[%d].ID = %s, want %s", i, links[i].ID, want)
		}
	}
}

func TestSortLinksMissingTimestampSortsLast(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	links := []*Link{
		{ID: "unstamped"},
		{ID: "new", CreatedAt: base.Add(time.Hour)},
		{ID: "old", CreatedAt: base},
	}

	SortLinks(links)

	if links[len(links)-1].ID != "unstamped" {
		t.Errorf("link with zero CreatedAt should sort last, got order %v",
			[]string{links[0].ID, links[1].ID, links[2].ID})
	}
	if links[0].ID != "new" {
		t.Errorf("newest link should sort first, got %s", links[0].ID)
	}
}

func TestLinkHasEngaged(t *testing.T) {
	link := &Link{
		Engagements: []Engagement{
			{UserID: "u1", Timestamp: time.Now()},
			{UserID: "u1", Timestamp: time.Now()}, // duplicates are permitted
			{UserID: "u2", Timestamp: time.Now()},
		},
	}

	if !link.HasEngaged("u1") {
		t.Error("HasEngaged(u1) = false, want true")
	}
	if !link.HasEngaged("u2") {
		t.Error("HasEngaged(u2) = false, want true")
	}
	if link.HasEngaged("u3") {
		t.Error("HasEngaged(u3) = true, want false")
	}
}

func TestLinkReactionCount(t *testing.T) {
	link := &Link{
		Reactions: map[string]string{
			"u1": "👍",
			"u2": "👍",
			"u3": "🔥",
		},
	}

	if got := link.ReactionCount("👍"); got != 2 {
		t.Errorf("ReactionCount(👍) = %d, want 2", got)
	}
	if got := link.ReactionCount("🔥"); got != 1 {
		t.Errorf("ReactionCount(🔥) = %d, want 1", got)
	}
	if got := link.ReactionCount("💀"); got != 0 {
		t.Errorf("ReactionCount(💀) = %d, want 0", got)
	}
}
