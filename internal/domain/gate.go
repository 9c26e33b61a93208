package domain

import "time"

// SubmitWindow is both the cooldown after a submission and the
// freshness window for a prior engagement. The two checks are
// independent; only elapsed duration matters.
const SubmitWindow = 24 * time.Hour

// GateReason explains why a submission is currently refused.
type GateReason int

const (
	// GateAllowed means submission is permitted right now.
	GateAllowed GateReason = iota
	// GateNeedsOnboarding: no profile exists yet.
	GateNeedsOnboarding
	// GateCooldownActive: last submission was under 24h ago.
	GateCooldownActive
	// GateNeverEngaged: the board has links but the user has never
	// engaged with any of them.
	GateNeverEngaged
	// GateEngagementStale: the user's last engagement is older than
	// the 24h freshness window.
	GateEngagementStale
)

// Message returns the user-facing refusal text for a reason.
func (r GateReason) Message() string {
	switch r {
	case GateNeedsOnboarding:
		return "Please complete your profile first."
	case GateCooldownActive:
		return "You can only submit one link every 24 hours."
	case GateNeverEngaged:
		return "You must engage with another link before submitting your first one."
	case GateEngagementStale:
		return "You must engage with another link within the last 24 hours before submitting a new one."
	default:
		return ""
	}
}

// EvaluateSubmitGate decides whether a user may submit a new link at
// instant now, given their profile and the number of links currently
// on the board. Rules are evaluated in order:
//
//  1. no profile            -> GateNeedsOnboarding
//  2. submitted < 24h ago   -> GateCooldownActive
//  3. board non-empty and
//     never engaged         -> GateNeverEngaged
//     engaged >= 24h ago    -> GateEngagementStale
//  4. otherwise             -> GateAllowed
//
// When the board is empty rule 3 is skipped entirely: the very first
// submitter needs no prior engagement.
func EvaluateSubmitGate(profile *Profile, linkCount int, now time.Time) GateReason {
	if profile == nil {
		return GateNeedsOnboarding
	}

	if profile.LastSubmission != nil && now.Sub(*profile.LastSubmission) < SubmitWindow {
		return GateCooldownActive
	}

	if linkCount > 0 {
		if profile.LastEngagement == nil {
			return GateNeverEngaged
		}
		if now.Sub(*profile.LastEngagement) >= SubmitWindow {
			return GateEngagementStale
		}
	}

	return GateAllowed
}

// CanSubmit is the boolean form of EvaluateSubmitGate.
func CanSubmit(profile *Profile, linkCount int, now time.Time) bool {
	return EvaluateSubmitGate(profile, linkCount, now) == GateAllowed
}
