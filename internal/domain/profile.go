package domain

import "time"

// Profile is the display identity and gate state of a board member.
// A profile exists only after the user has completed onboarding;
// its absence is the "needs onboarding" state, not an error.
type Profile struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// UserID is the opaque stable identifier assigned by the
	// identity provider. Primary key of the profile document.
	UserID string `json:"userId"`

	// ─────────────────────────────
	// Display identity (user-supplied, re-editable via onboarding)
	// ─────────────────────────────

	Name   string `json:"name"`
	Handle string `json:"handle"`

	// ─────────────────────────────
	// Gate state
	// ─────────────────────────────

	// LastSubmission is set only by a successful link submission.
	// Nil until the user has submitted at least once.
	LastSubmission *time.Time `json:"lastSubmissionTimestamp"`

	// LastEngagement is set only by a successful engagement.
	// Nil until the user has engaged at least once.
	LastEngagement *time.Time `json:"lastEngagementTimestamp"`
}
