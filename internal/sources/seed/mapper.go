package seed

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/linkring/linkring/internal/domain"
)

// SubmitterID marks links that came from the seed file rather than a
// real member.
const SubmitterID = "seed"

// Mapper converts seed entries to board links
type Mapper struct{}

// NewMapper creates a new seed mapper
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapLinks converts a seed Config to domain links. IDs are derived
// from the URL so reloading the same file never duplicates a link.
// Seeded links carry no creation instant and therefore sort below
// every real submission.
func (m *Mapper) MapLinks(config Config) ([]*domain.Link, error) {
	links := make([]*domain.Link, 0, len(config))

	for _, entry := range config {
		if entry.URL == "" {
			continue
		}

		name := entry.Name
		if name == "" {
			name = "Board"
		}

		links = append(links, &domain.Link{
			ID:              seedLinkID(entry.URL),
			URL:             entry.URL,
			SubmitterID:     SubmitterID,
			SubmitterName:   name,
			SubmitterHandle: entry.Handle,
			Engagements:     []domain.Engagement{},
			Reactions:       map[string]string{},
		})
	}

	if len(links) == 0 {
		return nil, fmt.Errorf("no valid links found in seed file")
	}

	return links, nil
}

// seedLinkID creates a stable ID from a URL using SHA-256 so the same
// URL always maps to the same document.
func seedLinkID(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])[:16]
}
