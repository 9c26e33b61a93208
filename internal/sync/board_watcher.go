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

// BoardWatcher keeps the board replica consistent with the remote
// link collection. Every change notification triggers a full re-read
// that replaces the replica wholesale; the latest snapshot wins.
type BoardWatcher struct {
	store    *redisstore.Store
	board    *replica.Board
	logger   logger.Logger
	onChange func()          // invoked after each successful replace
	onError  func(err error) // invoked on push-channel or read failure
	pubsub   *goredis.PubSub
	stopCh   chan struct{}
	stopping atomic.Bool
}

// NewBoardWatcher creates a board watcher. onChange and onError may
// be nil.
func NewBoardWatcher(
	store *redisstore.Store,
	board *replica.Board,
	log logger.Logger,
	onChange func(),
	onError func(err error),
) *BoardWatcher {
	return &BoardWatcher{
		store:    store,
		board:    board,
		logger:   log,
		onChange: onChange,
		onError:  onError,
		stopCh:   make(chan struct{}),
	}
}

// Start loads the current collection once, then follows change
// notifications until Stop or context cancellation. A failed push
// channel is surfaced through onError and ends the watch; cached data
// stays in place and resubscription is left to the caller.
func (w *BoardWatcher) Start(ctx context.Context) error {
	if err := w.refresh(ctx); err != nil {
		return fmt.Errorf("initial board sync failed: %w", err)
	}

	w.pubsub = w.store.Subscribe(ctx, redisstore.ChannelLinks)
	ch := w.pubsub.Channel()

	go func() {
		for {
			select {
			case _, ok := <-ch:
				if !ok {
					if !w.stopping.Load() {
						w.logger.Error("board push channel closed")
						w.fail(fmt.Errorf("board subscription lost"))
					}
					return
				}
				if err := w.refresh(ctx); err != nil {
					// Keep the cached snapshot, just report.
					w.logger.Error("board refresh failed", logger.Error(err))
					w.fail(err)
				}
			case <-w.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.logger.Info("board watcher started")
	return nil
}

// Stop tears the subscription down.
func (w *BoardWatcher) Stop() {
	w.stopping.Store(true)
	if w.pubsub != nil {
		_ = w.pubsub.Close()
	}
	close(w.stopCh)
}

func (w *BoardWatcher) refresh(ctx context.Context) error {
	links, err := w.store.GetAllLinks(ctx)
	if err != nil {
		return err
	}

	w.board.Replace(links)
	w.logger.Debug("board replica replaced", logger.Int("links", len(links)))

	if w.onChange != nil {
		w.onChange()
	}
	return nil
}

func (w *BoardWatcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
