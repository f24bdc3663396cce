package trending

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/nftgallery/marketplace-proxy/cache"
	"github.com/nftgallery/marketplace-proxy/config"
	"github.com/nftgallery/marketplace-proxy/events"
	"github.com/nftgallery/marketplace-proxy/metrics"
	"github.com/nftgallery/marketplace-proxy/scheduler"
)

const snapshotCacheKey = "collections:trending"

// Service keeps a periodically refreshed trending-collection snapshot in
// cache and notifies subscribers on every refresh
type Service struct {
	config    *config.Config
	cache     *cache.Cache
	ranker    *Ranker
	scheduler *scheduler.Scheduler
	subs      *events.SubscriptionManager
}

// NewService creates the trending service
func NewService(cfg *config.Config, store *cache.Cache, client APIClient) *Service {
	return &Service{
		config: cfg,
		cache:  store,
		ranker: NewRanker(client),
		subs:   events.NewSubscriptionManager(),
	}
}

// Start begins periodic refreshes, running the first one immediately
func (s *Service) Start(ctx context.Context) error {
	s.scheduler = scheduler.New(s.config.Trending.UpdateInterval, func(ctx context.Context) {
		s.refresh(ctx)
	})
	s.scheduler.Start(ctx, true)
	return nil
}

// Stop terminates the periodic refresh
func (s *Service) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Service) refresh(ctx context.Context) {
	startTime := time.Now()

	stats := s.ranker.Rank(ctx)

	metrics.RecordFetchCycle("trending", startTime)
	metrics.RecordSnapshotSize("trending", len(stats))

	data, err := json.Marshal(stats)
	if err != nil {
		log.Printf("Trending: failed to encode snapshot: %v", err)
		return
	}

	s.cache.Set(snapshotCacheKey, data, s.config.Trending.CacheTTL)
	log.Printf("Trending: refreshed snapshot with %d collections", len(stats))

	s.subs.Emit(ctx)
}

// GetTrending returns the last refreshed ranking, or nil when no snapshot
// is available yet
func (s *Service) GetTrending() []CollectionStat {
	data, found := s.cache.Get(snapshotCacheKey)
	if !found {
		return nil
	}

	var stats []CollectionStat
	if err := json.Unmarshal(data, &stats); err != nil {
		log.Printf("Trending: failed to decode cached snapshot: %v", err)
		return nil
	}
	return stats
}

// SubscribeOnUpdate registers for refresh notifications
func (s *Service) SubscribeOnUpdate() *events.Subscription {
	return s.subs.Subscribe()
}

// Healthy reports whether a non-empty snapshot is being served
func (s *Service) Healthy() bool {
	return len(s.GetTrending()) > 0
}
