package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/linkring/linkring/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GetProfile retrieves a user's profile document. A missing document
// is not an error: it is the "needs onboarding" state, reported as a
// nil profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	data, err := s.client.Get(ctx, ProfileKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	var profile domain.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}

	return &profile, nil
}

// MergeProfile merge-writes the display identity fields of a profile.
// On first save the document is created with both cooldown stamps
// null; re-running onboarding touches only name and handle. Returns
// the stored profile for optimistic local updates.
func (s *Store) MergeProfile(ctx context.Context, userID, name, handle string) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &domain.Profile{UserID: userID}
	}
	profile.Name = name
	profile.Handle = handle

	if err := s.writeProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// TouchLastEngagement stamps the profile's last-engagement instant
// with the store's current time. The profile must already exist.
func (s *Store) TouchLastEngagement(ctx context.Context, userID string) error {
	return s.touch(ctx, userID, func(p *domain.Profile, now time.Time) {
		p.LastEngagement = &now
	})
}

// TouchLastSubmission stamps the profile's last-submission instant
// with the store's current time. The profile must already exist.
func (s *Store) TouchLastSubmission(ctx context.Context, userID string) error {
	return s.touch(ctx, userID, func(p *domain.Profile, now time.Time) {
		p.LastSubmission = &now
	})
}

func (s *Store) touch(ctx context.Context, userID string, apply func(p *domain.Profile, now time.Time)) error {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile not found: %s", userID)
	}

	now, err := s.ServerNow(ctx)
	if err != nil {
		return err
	}

	apply(profile, now)
	return s.writeProfile(ctx, profile)
}

func (s *Store) writeProfile(ctx context.Context, profile *domain.Profile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	// Profiles are permanent documents, no TTL.
	if err := s.client.Set(ctx, ProfileKey(profile.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	s.notify(ctx, ProfileChannel(profile.UserID))
	return nil
}
