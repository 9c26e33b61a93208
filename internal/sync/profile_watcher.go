package sync

import (
	"context"
	"fmt"
	"sync/atomic"

	goredis "github.com/redis/go-redis/v9"

	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/replica"
	redisstore "github.com/linkring/linkring/internal/store/redis"
)

// ProfileWatcher follows one user's profile document. Each push
// replaces the replica wholesale; a missing document clears it, which
// is how the onboarded flag is derived. The watcher exists only while
// both a userId and a store handle are available; closing the session
// tears it down so nothing acts on stale identity.
type ProfileWatcher struct {
	store    *redisstore.Store
	userID   string
	user     *replica.UserState
	logger   logger.Logger
	onChange func()
	onError  func(err error)
	pubsub   *goredis.PubSub
	stopCh   chan struct{}
	stopping atomic.Bool
}

// NewProfileWatcher creates a profile watcher for one user.
func NewProfileWatcher(
	store *redisstore.Store,
	userID string,
	user *replica.UserState,
	log logger.Logger,
	onChange func(),
	onError func(err error),
) *ProfileWatcher {
	return &ProfileWatcher{
		store:    store,
		userID:   userID,
		user:     user,
		logger:   log,
		onChange: onChange,
		onError:  onError,
		stopCh:   make(chan struct{}),
	}
}

// Start reads the profile once, then follows change notifications
// until Stop or context cancellation.
func (w *ProfileWatcher) Start(ctx context.Context) error {
	if err := w.refresh(ctx); err != nil {
		return fmt.Errorf("initial profile sync failed: %w", err)
	}

	w.pubsub = w.store.Subscribe(ctx, redisstore.ProfileChannel(w.userID))
	ch := w.pubsub.Channel()

	go func() {
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					if !w.stopping.Load() {
						w.logger.Error("profile push channel closed",
							logger.String("user_id", w.userID))
						w.fail(fmt.Errorf("profile subscription lost"))
					}
					return
				}
				if err := w.refresh(ctx); err != nil {
					w.logger.Error("profile refresh failed",
						logger.String("user_id", w.userID),
						logger.Error(err))
					w.fail(err)
				}
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.logger.Debug("profile watcher started", logger.String("user_id", w.userID))
	return nil
}

// Stop tears the subscription down.
func (w *ProfileWatcher) Stop() {
	w.stopping.Store(true)
	if w.pubsub != nil {
		_ = w.pubsub.Close()
	}
	close(w.stopCh)
}

func (w *ProfileWatcher) refresh(ctx context.Context) error {
	profile, err := w.store.GetProfile(ctx, w.userID)
	if err != nil {
		return err
	}

	// Absence is a state, not an error: the user needs onboarding.
	if profile == nil {
		w.user.Clear()
	} else {
		w.user.Set(profile)
	}

	if w.onChange != nil {
		w.onChange()
	}
	return nil
}

func (w *ProfileWatcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
