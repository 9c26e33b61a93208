package replica

import (
	"sync"
	"time"

	"github.com/linkring/linkring/internal/domain"
)

// Board is the local replica of the remote link collection. Every
// push from the sync layer replaces it wholesale; there is no
// incremental diffing, the latest snapshot wins.
type Board struct {
	mu       sync.RWMutex
	links    []*domain.Link
	byID     map[string]*domain.Link
	lastSync time.Time
}

// NewBoard creates an empty board replica
func NewBoard() *Board {
	return &Board{
		byID: make(map[string]*domain.Link),
	}
}

// Replace swaps in a full new snapshot of the collection, sorted
// newest first. Called on every subscription push.
func (b *Board) Replace(links []*domain.Link) {
	sorted := make([]*domain.Link, len(links))
	copy(sorted, links)
	domain.SortLinks(sorted)

	byID := make(map[string]*domain.Link, len(sorted))
	for _, link := range sorted {
		byID[link.ID] = link
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.links = sorted
	b.byID = byID
	b.lastSync = time.Now()
}

// Links returns the current snapshot in display order.
func (b *Board) Links() []*domain.Link {
	b.mu.RLock()
	defer b.mu.RUnlock()

	links := make([]*domain.Link, len(b.links))
	copy(links, b.links)
	return links
}

// Get retrieves a link from the replica by ID
func (b *Board) Get(id string) (*domain.Link, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	link, ok := b.byID[id]
	return link, ok
}

// Count returns the number of links in the replica
func (b *Board) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.links)
}

// LastSync returns when the replica last received a snapshot.
func (b *Board) LastSync() time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.lastSync
}
