package scheduler

import (
	"context"
	"time"

	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/session"
)

const (
	// DefaultIdleTTL is the duration after which an unused session is torn down
	DefaultIdleTTL = 30 * time.Minute
)

// SessionReaper periodically closes sessions whose user has gone
// away, so their profile subscriptions do not linger on stale
// identity.
type SessionReaper struct {
	manager  *session.Manager
	logger   logger.Logger
	interval time.Duration
	idleTTL  time.Duration
	stopCh   chan struct{}
}

// NewSessionReaper creates a new session reaper
func NewSessionReaper(
	manager *session.Manager,
	log logger.Logger,
	interval time.Duration,
	idleTTL time.Duration,
) *SessionReaper {
	if idleTTL == 0 {
		idleTTL = DefaultIdleTTL
	}

	return &SessionReaper{
		manager:  manager,
		logger:   log,
		interval: interval,
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic reaping process
func (r *SessionReaper) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.manager.ReapIdle(r.idleTTL); n > 0 {
					r.logger.Info("idle sessions reaped",
						logger.Int("count", n))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reaper
func (r *SessionReaper) Stop() {
	close(r.stopCh)
}
