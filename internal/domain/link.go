package domain

import (
	"sort"
	"time"
)

// Engagement records one instance of a user having opened a link.
// The log is append-only and permits duplicate entries per user;
// only existence is ever checked.
type Engagement struct {
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

// Link is one submitted board entry.
type Link struct {
	// ID is assigned by the store at creation time.
	ID string `json:"id"`

	// URL is the shared link. Required, not validated beyond non-empty.
	URL string `json:"url"`

	// Submitter fields are a denormalized copy of the submitter's
	// profile at submission time. They are not kept in sync with
	// later profile edits.
	SubmitterID     string `json:"submitterId"`
	SubmitterName   string `json:"submitterName"`
	SubmitterHandle string `json:"submitterHandle"`

	// CreatedAt is server-assigned at creation. Zero when the store
	// never stamped the document; such links sort as oldest.
	CreatedAt time.Time `json:"createdAt"`

	// Engagements is the ordered engagement log.
	Engagements []Engagement `json:"engagements"`

	// Reactions maps userId to a reaction kind. One reaction per
	// user per link, last write wins.
	Reactions map[string]string `json:"reactions"`
}

// HasEngaged reports whether the engagement log contains at least
// one entry for userID.
func (l *Link) HasEngaged(userID string) bool {
	for _, e := range l.Engagements {
		if e.UserID == userID {
			return true
		}
	}
	return false
}

// ReactionCount returns how many users currently hold the given
// reaction kind on this link.
func (l *Link) ReactionCount(kind string) int {
	n := 0
	for _, k := range l.Reactions {
		if k == kind {
			n++
		}
	}
	return n
}

// SortLinks orders links newest first by CreatedAt. Links without a
// timestamp sort last. The sort is stable so equal timestamps keep
// their delivered order.
func SortLinks(links []*Link) {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
}
