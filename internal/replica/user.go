package replica

import (
	"sync"

	"github.com/linkring/linkring/internal/domain"
)

// UserState is the local replica of one user's profile document.
// The onboarded flag is derived purely from document presence.
type UserState struct {
	mu      sync.RWMutex
	profile *domain.Profile
}

// NewUserState creates an empty profile replica
func NewUserState() *UserState {
	return &UserState{}
}

// Set replaces the profile wholesale. Called on every subscription
// push and on optimistic local updates after a merge-write.
func (u *UserState) Set(profile *domain.Profile) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.profile = profile
}

// Clear drops the replica, returning the user to the
// needs-onboarding state.
func (u *UserState) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.profile = nil
}

// Profile returns the cached profile, nil when the user has not
// onboarded.
func (u *UserState) Profile() *domain.Profile {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.profile
}

// Onboarded reports whether a profile document is present.
func (u *UserState) Onboarded() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.profile != nil
}
