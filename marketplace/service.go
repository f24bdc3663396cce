package marketplace

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nftgallery/marketplace-proxy/backendapi"
	"github.com/nftgallery/marketplace-proxy/config"
	"github.com/nftgallery/marketplace-proxy/events"
	"github.com/nftgallery/marketplace-proxy/metrics"
	"github.com/nftgallery/marketplace-proxy/scheduler"
)

// Service maintains the aggregated in-memory NFT set that the filter engine
// projects from. The snapshot is replaced wholesale on refresh; readers get
// the slice that was current when they asked.
type Service struct {
	config *config.Config
	client backendapi.NFTLister

	snapshot struct {
		sync.RWMutex
		nfts []backendapi.NFT
	}

	scheduler *scheduler.Scheduler
	subs      *events.SubscriptionManager
}

// NewService creates the market view service
func NewService(cfg *config.Config, client backendapi.NFTLister) *Service {
	return &Service{
		config: cfg,
		client: client,
		subs:   events.NewSubscriptionManager(),
	}
}

// Start begins periodic snapshot refreshes, running the first immediately
func (s *Service) Start(ctx context.Context) error {
	s.scheduler = scheduler.New(s.config.MarketView.UpdateInterval, func(ctx context.Context) {
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

	var nfts []backendapi.NFT
	err := backendapi.WalkNFTs(ctx, s.client, func(page []backendapi.NFT) {
		nfts = append(nfts, page...)
	})

	metrics.RecordFetchCycle("market_view", startTime)

	if err != nil {
		// Serve the previous snapshot rather than an empty view
		log.Printf("MarketView: refresh failed, keeping previous snapshot: %v", err)
		return
	}

	s.snapshot.Lock()
	s.snapshot.nfts = nfts
	s.snapshot.Unlock()

	metrics.RecordSnapshotSize("market_view", len(nfts))
	log.Printf("MarketView: refreshed snapshot with %d NFTs", len(nfts))

	s.subs.Emit(ctx)
}

// NFTs returns the current aggregated NFT set
func (s *Service) NFTs() []backendapi.NFT {
	s.snapshot.RLock()
	defer s.snapshot.RUnlock()
	return s.snapshot.nfts
}

// View applies the filter/sort engine over the current snapshot
func (s *Service) View(activeTab string, filters FilterState, sortBy SortKey) []backendapi.NFT {
	return Apply(s.NFTs(), activeTab, filters, sortBy)
}

// SubscribeOnUpdate registers for snapshot refresh notifications
func (s *Service) SubscribeOnUpdate() *events.Subscription {
	return s.subs.Subscribe()
}

// Healthy reports whether a snapshot has been loaded
func (s *Service) Healthy() bool {
	return len(s.NFTs()) > 0
}
