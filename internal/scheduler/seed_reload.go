package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/linkring/linkring/internal/logger"
	"github.com/linkring/linkring/internal/sources/seed"
	redisstore "github.com/linkring/linkring/internal/store/redis"
)

// SeedReloader keeps the board stocked with the starter links from
// the seed file: loaded at start, refreshed on an interval, and on a
// manual trigger. Existing documents are never overwritten, so member
// engagements and reactions on a seeded link survive reloads.
type SeedReloader struct {
	loader        *seed.Loader
	mapper        *seed.Mapper
	store         *redisstore.Store
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed reloader
func NewSeedReloader(
	seedFile string,
	store *redisstore.Store,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SeedReloader {
	return &SeedReloader{
		loader:        seed.NewLoader(seedFile),
		mapper:        seed.NewMapper(),
		store:         store,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start begins the periodic reload process
func (sr *SeedReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := sr.Reload(ctx); err != nil {
		return fmt.Errorf("initial seed load failed: %w", err)
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seeds",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				sr.logger.Info("manual seed reload triggered")
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("failed to reload seeds",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Reload loads the seed file and creates any links the board does not
// have yet.
func (sr *SeedReloader) Reload(ctx context.Context) error {
	sr.logger.Info("loading starter links from seed file")

	config, err := sr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load seeds: %w", err)
	}

	links, err := sr.mapper.MapLinks(config)
	if err != nil {
		return fmt.Errorf("failed to map seeds: %w", err)
	}

	created := 0
	for _, link := range links {
		exists, err := sr.store.HasLink(ctx, link.ID)
		if err != nil {
			sr.logger.Warn("failed to check seeded link",
				logger.String("link_id", link.ID),
				logger.Error(err))
			continue
		}
		if exists {
			continue
		}
		if err := sr.store.SaveLink(ctx, link); err != nil {
			sr.logger.Warn("failed to save seeded link",
				logger.String("link_id", link.ID),
				logger.Error(err))
			continue
		}
		created++
	}

	sr.logger.Info("seed reload complete",
		logger.Int("total", len(links)),
		logger.Int("created", created))
	return nil
}
