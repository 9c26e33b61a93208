package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is the remote document store backing the board. Profiles and
// links are JSON documents under prefixed keys; every write publishes
// a change notification so subscribers can re-read the current state.
// Writes are blind overwrites of the document they target, there are
// no transactions.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis store
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
	}
}

// ServerNow returns the store's own clock, used for every
// server-assigned instant (createdAt, cooldown stamps).
func (s *Store) ServerNow(ctx context.Context) (time.Time, error) {
	t, err := s.client.Time(ctx).Result()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read server time: %w", err)
	}
	return t, nil
}

// Ping reports whether the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Subscribe opens a pub/sub subscription on the given change channels.
// The caller owns the returned subscription and must close it.
func (s *Store) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return s.client.Subscribe(ctx, channels...)
}

// notify publishes a change notification. Best effort: a write that
// succeeded but failed to notify is still durable, subscribers will
// pick it up on their next refresh.
func (s *Store) notify(ctx context.Context, channel string) {
	_ = s.client.Publish(ctx, channel, "changed").Err()
}
