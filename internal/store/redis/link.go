package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linkring/linkring/internal/domain"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
)

// CreateLink creates a new link document with a store-assigned ID and
// server-assigned creation instant, an empty engagement log, an empty
// reaction map, and the submitter fields copied from the profile as
// it is right now.
func (s *Store) CreateLink(ctx context.Context, url string, submitter *domain.Profile) (*domain.Link, error) {
	now, err := s.ServerNow(ctx)
	if err != nil {
		return nil, err
	}

	link := &domain.Link{
		ID:              ulid.Make().String(),
		URL:             url,
		SubmitterID:     submitter.UserID,
		SubmitterName:   submitter.Name,
		SubmitterHandle: submitter.Handle,
		CreatedAt:       now,
		Engagements:     []domain.Engagement{},
		Reactions:       map[string]string{},
	}

	if err := s.SaveLink(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// SaveLink writes a full link document and registers its ID. Used by
// CreateLink and by the seed loader (which brings its own IDs).
func (s *Store) SaveLink(ctx context.Context, link *domain.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	// Links are permanent documents, no TTL.
	if err := s.client.Set(ctx, LinkKey(link.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}

	if err := s.client.SAdd(ctx, AllLinksKey(), link.ID).Err(); err != nil {
		return fmt.Errorf("failed to add link to set: %w", err)
	}

	s.notify(ctx, ChannelLinks)
	return nil
}

// GetLink retrieves a link from Redis by ID
func (s *Store) GetLink(ctx context.Context, id string) (*domain.Link, error) {
	data, err := s.client.Get(ctx, LinkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("link not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	var link domain.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}

	return &link, nil
}

// HasLink reports whether a link document exists.
func (s *Store) HasLink(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, LinkKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check link: %w", err)
	}
	return n > 0, nil
}

// GetAllLinks retrieves the entire link collection.
func (s *Store) GetAllLinks(ctx context.Context) ([]*domain.Link, error) {
	ids, err := s.client.SMembers(ctx, AllLinksKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}

	if len(ids) == 0 {
		return []*domain.Link{}, nil
	}

	links := make([]*domain.Link, 0, len(ids))
	for _, id := range ids {
		link, err := s.GetLink(ctx, id)
		if err != nil {
			// Skip links that couldn't be retrieved
			continue
		}
		links = append(links, link)
	}

	return links, nil
}

// SetEngagements overwrites a link's engagement log. The value is the
// caller's locally cached copy plus its appended entry; a concurrent
// engage on the same link can be silently discarded (accepted risk).
func (s *Store) SetEngagements(ctx context.Context, linkID string, engagements []domain.Engagement) error {
	return s.overwriteField(ctx, linkID, func(l *domain.Link) {
		l.Engagements = engagements
	})
}

// SetReactions overwrites a link's reaction map, last write wins.
func (s *Store) SetReactions(ctx context.Context, linkID string, reactions map[string]string) error {
	return s.overwriteField(ctx, linkID, func(l *domain.Link) {
		l.Reactions = reactions
	})
}

// overwriteField rewrites one field of a link document. The store
// applies the document write atomically, but the caller's value may
// be based on a stale read.
func (s *Store) overwriteField(ctx context.Context, linkID string, apply func(l *domain.Link)) error {
	link, err := s.GetLink(ctx, linkID)
	if err != nil {
		return err
	}

	apply(link)

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}
	if err := s.client.Set(ctx, LinkKey(link.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}

	s.notify(ctx, ChannelLinks)
	return nil
}
