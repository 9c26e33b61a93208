package board

import (
	"context"
	"time"

	"github.com/linkring/linkring/internal/domain"
	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/replica"
)

// Store is the slice of the remote document store the mutation
// protocol needs: point reads and field-scoped blind overwrites, plus
// the store's clock for server-assigned instants.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	MergeProfile(ctx context.Context, userID, name, handle string) (*domain.Profile, error)
	TouchLastEngagement(ctx context.Context, userID string) error
	TouchLastSubmission(ctx context.Context, userID string) error
	CreateLink(ctx context.Context, url string, submitter *domain.Profile) (*domain.Link, error)
	SetEngagements(ctx context.Context, linkID string, engagements []domain.Engagement) error
	SetReactions(ctx context.Context, linkID string, reactions map[string]string) error
}

// Service implements the mutation protocol. Every operation is a
// short sequence of remote reads and writes with no cross-operation
// transaction: it reads the latest locally cached copy, computes the
// new value, and issues a blind overwrite. Partial completion is
// reported, never rolled back.
type Service struct {
	store  Store
	board  *replica.Board
	logger logger.Logger
	now    func() time.Time
}

// New creates the board service
func New(store Store, board *replica.Board, log logger.Logger) *Service {
	return &Service{
		store:  store,
		board:  board,
		logger: log,
		now:    time.Now,
	}
}

// Onboard merge-writes the user's display identity. On first save the
// profile document is created with both cooldown stamps null. Returns
// the stored profile so the caller can update its replica
// optimistically, ahead of the subscription push.
func (s *Service) Onboard(ctx context.Context, userID, name, handle string) (*domain.Profile, error) {
	if name == "" || handle == "" {
		return nil, &ValidationError{Msg: "Please enter both your name and handle."}
	}

	profile, err := s.store.MergeProfile(ctx, userID, name, handle)
	if err != nil {
		s.logger.Error("failed to save profile",
			logger.String("user_id", userID),
			logger.Error(err))
		return nil, &RemoteFailure{
			Op:     "save profile",
			Notice: "Failed to save your information. Please try again.",
			Err:    err,
		}
	}

	s.logger.Info("profile saved",
		logger.String("user_id", userID),
		logger.String("handle", handle))
	return profile, nil
}

// Engage records that the user opened a link: it appends an entry to
// the locally cached engagement log, overwrites the remote field,
// then stamps the profile's last-engagement instant. Returns the link
// URL so the presentation layer can open it.
//
// The append is a local-read/remote-write with no concurrency check:
// two racing engagements on the same link can silently lose one
// entry. If the field write succeeds but the profile stamp fails, the
// log keeps the event and the user's gate state simply lags until a
// retry succeeds. Neither is rolled back.
func (s *Service) Engage(ctx context.Context, user *replica.UserState, linkID string) (string, error) {
	profile := user.Profile()
	if profile == nil {
		return "", &GateError{Reason: domain.GateNeedsOnboarding}
	}

	link, ok := s.board.Get(linkID)
	if !ok {
		return "", &ValidationError{Msg: "That link is no longer on the board."}
	}

	engagements := make([]domain.Engagement, 0, len(link.Engagements)+1)
	engagements = append(engagements, link.Engagements...)
	engagements = append(engagements, domain.Engagement{
		UserID:    profile.UserID,
		Timestamp: s.now(),
	})

	if err := s.store.SetEngagements(ctx, linkID, engagements); err != nil {
		s.logger.Error("failed to record engagement",
			logger.String("user_id", profile.UserID),
			logger.String("link_id", linkID),
			logger.Error(err))
		return "", &RemoteFailure{
			Op:     "record engagement",
			Notice: "Failed to record engagement. Please try again.",
			Err:    err,
		}
	}

	if err := s.store.TouchLastEngagement(ctx, profile.UserID); err != nil {
		// The engagement log already holds the event; only the gate
		// state is stale until the user retries.
		s.logger.Warn("engagement recorded but profile stamp failed",
			logger.String("user_id", profile.UserID),
			logger.String("link_id", linkID),
			logger.Error(err))
		return "", &RemoteFailure{
			Op:     "stamp engagement",
			Notice: "Failed to record engagement. Please try again.",
			Err:    err,
		}
	}

	s.logger.Info("engagement recorded",
		logger.String("user_id", profile.UserID),
		logger.String("link_id", linkID))
	return link.URL, nil
}

// React sets the user's single reaction on a link, replacing any
// previous one. The prior-engagement precondition is checked against
// the last-synced replica only; no write is issued when it fails.
func (s *Service) React(ctx context.Context, user *replica.UserState, linkID, kind string) error {
	profile := user.Profile()
	if profile == nil {
		return &GateError{Reason: domain.GateNeedsOnboarding}
	}
	if kind == "" {
		return &ValidationError{Msg: "Please pick a reaction."}
	}

	link, ok := s.board.Get(linkID)
	if !ok {
		return &ValidationError{Msg: "That link is no longer on the board."}
	}

	if !link.HasEngaged(profile.UserID) {
		return &PrecursorError{}
	}

	reactions := make(map[string]string, len(link.Reactions)+1)
	for id, k := range link.Reactions {
		reactions[id] = k
	}
	reactions[profile.UserID] = kind

	if err := s.store.SetReactions(ctx, linkID, reactions); err != nil {
		s.logger.Error("failed to record reaction",
			logger.String("user_id", profile.UserID),
			logger.String("link_id", linkID),
			logger.Error(err))
		return &RemoteFailure{
			Op:     "record reaction",
			Notice: "Failed to record reaction. Please try again.",
			Err:    err,
		}
	}

	s.logger.Info("reaction recorded",
		logger.String("user_id", profile.UserID),
		logger.String("link_id", linkID),
		logger.String("kind", kind))
	return nil
}

// Submit creates a new link and then stamps the submitter's cooldown.
// The gate is re-checked synchronously against the locally cached
// profile and link set; a stale cache can let a disallowed submission
// through (accepted risk). On failure of the second write the link
// exists without its paired cooldown update; that partial state is
// reported, not rolled back.
func (s *Service) Submit(ctx context.Context, user *replica.UserState, url string) (*domain.Link, error) {
	if url == "" {
		return nil, &ValidationError{Msg: "Please enter a link URL."}
	}

	profile := user.Profile()
	if reason := domain.EvaluateSubmitGate(profile, s.board.Count(), s.now()); reason != domain.GateAllowed {
		return nil, &GateError{Reason: reason}
	}

	link, err := s.store.CreateLink(ctx, url, profile)
	if err != nil {
		s.logger.Error("failed to submit link",
			logger.String("user_id", profile.UserID),
			logger.Error(err))
		return nil, &RemoteFailure{
			Op:     "create link",
			Notice: "Failed to submit link. Please try again.",
			Err:    err,
		}
	}

	if err := s.store.TouchLastSubmission(ctx, profile.UserID); err != nil {
		// The link is live but the cooldown was never recorded.
		s.logger.Warn("link created but cooldown stamp failed",
			logger.String("user_id", profile.UserID),
			logger.String("link_id", link.ID),
			logger.Error(err))
		return nil, &RemoteFailure{
			Op:     "stamp submission",
			Notice: "Failed to submit link. Please try again.",
			Err:    err,
		}
	}

	s.logger.Info("link submitted",
		logger.String("user_id", profile.UserID),
		logger.String("link_id", link.ID),
		logger.String("url", url))
	return link, nil
}

// SubmitGate reports why submission is currently refused for a user,
// evaluated against the local cache.
func (s *Service) SubmitGate(user *replica.UserState) domain.GateReason {
	return domain.EvaluateSubmitGate(user.Profile(), s.board.Count(), s.now())
}

// CanSubmit is the boolean form of SubmitGate.
func (s *Service) CanSubmit(user *replica.UserState) bool {
	return s.SubmitGate(user) == domain.GateAllowed
}
