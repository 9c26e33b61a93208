package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/linkring/linkring/internal/board"
	"github.com/linkring/linkring/internal/domain"
	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/replica"
)

// memStore is an in-memory document store for full-flow scenarios.
// serverAt plays the store's clock and is advanced by the test.
type memStore struct {
	profiles map[string]*domain.Profile
	links    map[string]*domain.Link
	serverAt time.Time
}

func newMemStore(serverAt time.Time) *memStore {
	return &memStore{
		profiles: make(map[string]*domain.Profile),
		links:    make(map[string]*domain.Link),
		serverAt: serverAt,
	}
}

func (m *memStore) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) MergeProfile(_ context.Context, userID, name, handle string) (*domain.Profile, error) {
	p, ok := m.profiles[userID]
	if !ok {
		p = &domain.Profile{UserID: userID}
		m.profiles[userID] = p
	}
	p.Name = name
	p.Handle = handle
	cp := *p
	return &cp, nil
}

func (m *memStore) TouchLastEngagement(_ context.Context, userID string) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile not found: %s", userID)
	}
	at := m.serverAt
	p.LastEngagement = &at
	return nil
}

func (m *memStore) TouchLastSubmission(_ context.Context, userID string) error {
	p, ok := m.profiles[userID]
	if !ok {
		return fmt.Errorf("profile not found: %s", userID)
	}
	at := m.serverAt
	p.LastSubmission = &at
	return nil
}

func (m *memStore) CreateLink(_ context.Context, url string, submitter *domain.Profile) (*domain.Link, error) {
	link := &domain.Link{
		ID:              fmt.Sprintf("link-%d", len(m.links)+1),
		URL:             url,
		SubmitterID:     submitter.UserID,
		SubmitterName:   submitter.Name,
		SubmitterHandle: submitter.Handle,
		CreatedAt:       m.serverAt,
		Engagements:     []domain.Engagement{},
		Reactions:       map[string]string{},
	}
	m.links[link.ID] = link
	cp := *link
	return &cp, nil
}

func (m *memStore) SetEngagements(_ context.Context, linkID string, engagements []domain.Engagement) error {
	link, ok := m.links[linkID]
	if !ok {
		return fmt.Errorf("link not found: %s", linkID)
	}
	link.Engagements = engagements
	return nil
}

func (m *memStore) SetReactions(_ context.Context, linkID string, reactions map[string]string) error {
	link, ok := m.links[linkID]
	if !ok {
		return fmt.Errorf("link not found: %s", linkID)
	}
	link.Reactions = reactions
	return nil
}

// push simulates a collection subscription push into the replica.
func (m *memStore) push(b *replica.Board) {
	links := make([]*domain.Link, 0, len(m.links))
	for _, l := range m.links {
		cp := *l
		links = append(links, &cp)
	}
	b.Replace(links)
}

// refresh simulates a profile subscription push for one user.
func refresh(t *testing.T, m *memStore, user *replica.UserState, userID string) {
	t.Helper()
	p, err := m.GetProfile(context.Background(), userID)
	if err != nil {
		t.Fatalf("refresh profile %s: %v", userID, err)
	}
	if p == nil {
		user.Clear()
		return
	}
	user.Set(p)
}

// TestBoardFlow walks the whole member lifecycle: onboarding, first
// submission, the engagement requirement, the submission cooldown,
// engagement freshness, and reactions.
func TestBoardFlow(t *testing.T) {
	ctx := context.Background()
	log := logger.New("error", false)

	// Two days ago, so cooldowns set early in the scenario have lapsed
	// by the time the later steps run.
	dayOne := time.Now().Add(-48 * time.Hour)

	store := newMemStore(dayOne)
	b := replica.NewBoard()
	svc := board.New(store, b, log)

	alice := replica.NewUserState()
	bob := replica.NewUserState()
	carol := replica.NewUserState()

	// Before onboarding, nobody can touch the board.
	if svc.CanSubmit(alice) {
		t.Fatal("fresh visitor should not pass the submit gate")
	}
	if reason := svc.SubmitGate(alice); reason != domain.GateNeedsOnboarding {
		t.Fatalf("gate = %v, want GateNeedsOnboarding", reason)
	}

	// Alice onboards and gets the empty-board free pass.
	profile, err := svc.Onboard(ctx, "alice", "Alice", "@alice")
	if err != nil {
		t.Fatalf("onboard alice: %v", err)
	}
	alice.Set(profile)
	if !svc.CanSubmit(alice) {
		t.Fatal("first member on an empty board should be allowed to submit")
	}

	link1, err := svc.Submit(ctx, alice, "https://go.dev/blog")
	if err != nil {
		t.Fatalf("alice submit: %v", err)
	}
	store.push(b)
	refresh(t, store, alice, "alice")

	if b.Count() != 1 {
		t.Fatalf("board count = %d, want 1", b.Count())
	}

	// Bob onboards; the board is no longer empty, so he must engage
	// with something before he can submit.
	profile, err = svc.Onboard(ctx, "bob", "Bob", "@bob")
	if err != nil {
		t.Fatalf("onboard bob: %v", err)
	}
	bob.Set(profile)

	if _, err := svc.Submit(ctx, bob, "https://example.com/bob"); err == nil {
		t.Fatal("bob should be blocked until he engages")
	}
	if reason := svc.SubmitGate(bob); reason != domain.GateNeverEngaged {
		t.Fatalf("gate = %v, want GateNeverEngaged", reason)
	}

	// Bob engages with Alice's link an hour ago.
	store.serverAt = time.Now().Add(-1 * time.Hour)
	url, err := svc.Engage(ctx, bob, link1.ID)
	if err != nil {
		t.Fatalf("bob engage: %v", err)
	}
	if url != link1.URL {
		t.Fatalf("engage url = %q, want %q", url, link1.URL)
	}
	store.push(b)
	refresh(t, store, bob, "bob")

	cached, ok := b.Get(link1.ID)
	if !ok {
		t.Fatal("engaged link missing from replica")
	}
	if !cached.HasEngaged("bob") {
		t.Fatal("bob's engagement not visible in replica")
	}

	// Fresh engagement opens the gate.
	link2, err := svc.Submit(ctx, bob, "https://example.com/bob")
	if err != nil {
		t.Fatalf("bob submit after engaging: %v", err)
	}
	store.push(b)
	refresh(t, store, bob, "bob")

	// A second submission right away trips the cooldown.
	if _, err := svc.Submit(ctx, bob, "https://example.com/again"); err == nil {
		t.Fatal("bob should be in cooldown after submitting")
	}
	if reason := svc.SubmitGate(bob); reason != domain.GateCooldownActive {
		t.Fatalf("gate = %v, want GateCooldownActive", reason)
	}

	// Reactions require an engagement on that same link.
	if err := svc.React(ctx, alice, link2.ID, "🔥"); err == nil {
		t.Fatal("alice has not engaged with bob's link, react should fail")
	}
	if err := svc.React(ctx, bob, link1.ID, "🔥"); err != nil {
		t.Fatalf("bob react: %v", err)
	}
	store.push(b)

	cached, _ = b.Get(link1.ID)
	if got := cached.Reactions["bob"]; got != "🔥" {
		t.Fatalf("bob's reaction = %q, want 🔥", got)
	}

	// Carol never onboarded, so every mutation is rejected.
	if _, err := svc.Engage(ctx, carol, link1.ID); err == nil {
		t.Fatal("carol should not be able to engage without a profile")
	}
	if err := svc.React(ctx, carol, link1.ID, "👍"); err == nil {
		t.Fatal("carol should not be able to react without a profile")
	}

	// Engagements older than a day go stale: the gate closes again
	// even though the cooldown has lapsed.
	dave := replica.NewUserState()
	profile, err = svc.Onboard(ctx, "dave", "Dave", "@dave")
	if err != nil {
		t.Fatalf("onboard dave: %v", err)
	}
	dave.Set(profile)

	store.serverAt = time.Now().Add(-30 * time.Hour)
	if err := store.TouchLastEngagement(ctx, "dave"); err != nil {
		t.Fatalf("stamp dave: %v", err)
	}
	refresh(t, store, dave, "dave")

	if reason := svc.SubmitGate(dave); reason != domain.GateEngagementStale {
		t.Fatalf("gate = %v, want GateEngagementStale", reason)
	}

	// Newest first: Bob's link was created after Alice's.
	links := b.Links()
	if len(links) != 2 {
		t.Fatalf("board has %d links, want 2", len(links))
	}
	if links[0].ID != link2.ID {
		t.Fatalf("top of board = %s, want %s", links[0].ID, link2.ID)
	}
}
