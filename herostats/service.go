// Package herostats computes the marketplace landing-page metrics: all-time
// traded count, active creators, and unique collections, derived from the
// backend's NFT and activity streams.
package herostats

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nftgallery/marketplace-proxy/backendapi"
	"github.com/nftgallery/marketplace-proxy/config"
	"github.com/nftgallery/marketplace-proxy/metrics"
	"github.com/nftgallery/marketplace-proxy/scheduler"
)

// Stats are the hero-section metrics
type Stats struct {
	TotalTraded       int `json:"total_traded"`
	ActiveCreators    int `json:"active_creators"`
	UniqueCollections int `json:"unique_collections"`
}

// BuyCounter counts all-time buy activity
type BuyCounter interface {
	CountBuys(ctx context.Context) int
}

// Collector derives hero stats from the backend streams
type Collector struct {
	nftClient  backendapi.NFTLister
	buyCounter BuyCounter
}

// NewCollector creates a collector over the given dependencies
func NewCollector(nftClient backendapi.NFTLister, buyCounter BuyCounter) *Collector {
	return &Collector{
		nftClient:  nftClient,
		buyCounter: buyCounter,
	}
}

// Collect runs the NFT walk and the buy count as independent loops, each
// accumulating into its own state, and merges the results once both finish.
// Failures degrade to whatever was accumulated; Collect never fails.
func (c *Collector) Collect(ctx context.Context) Stats {
	var (
		wg          sync.WaitGroup
		creators    = make(map[string]struct{})
		collections = make(map[string]struct{})
		totalTraded int
	)

	wg.Add(2)

	go func() {
		defer wg.Done()
		err := backendapi.WalkNFTs(ctx, c.nftClient, func(nfts []backendapi.NFT) {
			for _, nft := range nfts {
				if nft.CreatorAddress != "" {
					creators[nft.CreatorAddress] = struct{}{}
				}
				if name := nft.Collection.ResolveName(); name != "" {
					collections[name] = struct{}{}
				}
			}
		})
		if err != nil {
			log.Printf("HeroStats: NFT walk failed: %v", err)
		}
	}()

	go func() {
		defer wg.Done()
		totalTraded = c.buyCounter.CountBuys(ctx)
	}()

	wg.Wait()

	return Stats{
		TotalTraded:       totalTraded,
		ActiveCreators:    len(creators),
		UniqueCollections: len(collections),
	}
}

// Service keeps a periodically refreshed hero-stats snapshot
type Service struct {
	config    *config.Config
	collector *Collector
	scheduler *scheduler.Scheduler

	cache struct {
		sync.RWMutex
		stats  Stats
		loaded bool
	}
}

// NewService creates the hero stats service
func NewService(cfg *config.Config, nftClient backendapi.NFTLister, buyCounter BuyCounter) *Service {
	return &Service{
		config:    cfg,
		collector: NewCollector(nftClient, buyCounter),
	}
}

// Start begins periodic refreshes, running the first one immediately
func (s *Service) Start(ctx context.Context) error {
	s.scheduler = scheduler.New(s.config.HeroStats.UpdateInterval, func(ctx context.Context) {
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

	stats := s.collector.Collect(ctx)

	metrics.RecordFetchCycle("hero_stats", startTime)

	s.cache.Lock()
	s.cache.stats = stats
	s.cache.loaded = true
	s.cache.Unlock()

	log.Printf("HeroStats: refreshed (traded=%d creators=%d collections=%d)",
		stats.TotalTraded, stats.ActiveCreators, stats.UniqueCollections)
}

// GetStats returns the last refreshed hero stats (zeros before first refresh)
func (s *Service) GetStats() Stats {
	s.cache.RLock()
	defer s.cache.RUnlock()
	return s.cache.stats
}

// Healthy reports whether at least one refresh completed
func (s *Service) Healthy() bool {
	s.cache.RLock()
	defer s.cache.RUnlock()
	return s.cache.loaded
}
