package domain

import (
	"testing"
	"time"
)

func ts(t time.Time) *time.Time { return &t }

func TestEvaluateSubmitGate(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		profile   *Profile
		linkCount int
		want      GateReason
	}{
		{
			name:      "no profile",
			profile:   nil,
			linkCount: 0,
			want:      GateNeedsOnboarding,
		},
		{
			name:      "fresh profile, empty board",
			profile:   &Profile{UserID: "u1"},
			linkCount: 0,
			want:      GateAllowed,
		},
		{
			name: "empty board ignores engagement state",
			profile: &Profile{
				UserID:         "u1",
				LastEngagement: ts(now.Add(-72 * time.Hour)),
			},
			linkCount: 0,
			want:      GateAllowed,
		},
		{
			name: "cooldown active just under 24h",
			profile: &Profile{
				UserID:         "u1",
				LastSubmission: ts(now.Add(-24*time.Hour + time.Minute)),
				LastEngagement: ts(now.Add(-time.Hour)),
			},
			linkCount: 3,
			want:      GateCooldownActive,
		},
		{
			name: "cooldown elapsed exactly 24h",
			profile: &Profile{
				UserID:         "u1",
				LastSubmission: ts(now.Add(-24 * time.Hour)),
				LastEngagement: ts(now.Add(-time.Hour)),
			},
			linkCount: 3,
			want:      GateAllowed,
		},
		{
			name: "cooldown checked before engagement",
			profile: &Profile{
				UserID:         "u1",
				LastSubmission: ts(now.Add(-time.Hour)),
			},
			linkCount: 3,
			want:      GateCooldownActive,
		},
		{
			name:      "never engaged with non-empty board",
			profile:   &Profile{UserID: "u1"},
			linkCount: 1,
			want:      GateNeverEngaged,
		},
		{
			name: "engagement stale at exactly 24h",
			profile: &Profile{
				UserID:         "u1",
				LastEngagement: ts(now.Add(-24 * time.Hour)),
			},
			linkCount: 1,
			want:      GateEngagementStale,
		},
		{
			name: "engagement fresh",
			profile: &Profile{
				UserID:         "u1",
				LastEngagement: ts(now.Add(-23 * time.Hour)),
			},
			linkCount: 1,
			want:      GateAllowed,
		},
		{
			name: "all conditions satisfied",
			profile: &Profile{
				UserID:         "u1",
				LastSubmission: ts(now.Add(-48 * time.Hour)),
				LastEngagement: ts(now.Add(-2 * time.Hour)),
			},
			linkCount: 5,
			want:      GateAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateSubmitGate(tt.profile, tt.linkCount, now)
			if got != tt.want {
				t.Errorf("EvaluateSubmitGate() = %v, want %v", got, tt.want)
			}

			wantBool := tt.want == GateAllowed
			if CanSubmit(tt.profile, tt.linkCount, now) != wantBool {
				t.Errorf("CanSubmit() = %v, want %v", !wantBool, wantBool)
			}
		})
	}
}

func TestGateReasonMessage(t *testing.T) {
	reasons := []GateReason{
		GateNeedsOnboarding,
		GateCooldownActive,
		GateNeverEngaged,
		GateEngagementStale,
	}
	for _, r := range reasons {
		if r.Message() == "" {
			t.Errorf("GateReason(%d).Message() is empty", r)
		}
	}
	if GateAllowed.Message() != "" {
		t.Errorf("GateAllowed should have no refusal message")
	}
}
