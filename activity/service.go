package activity

import (
	"context"
	"log"

	"github.com/nftgallery/marketplace-proxy/backendapi"
)

const (
	// MaxActivityPages bounds the all-time activity pagination loop.
	// Circuit breaker against a backend that always reports has_next.
	MaxActivityPages = 100

	// ActivityPageLimit is the page size used when counting activity
	ActivityPageLimit = 200
)

// APIClient is the backend surface the aggregator depends on
type APIClient interface {
	GetActivities(ctx context.Context, params backendapi.ActivityParams) (*backendapi.PaginatedResponse[backendapi.Activity], error)
	GetActivityStats(ctx context.Context) (*backendapi.Response[backendapi.ActivityStats], error)
}

// Service aggregates activity data with a degraded-empty-result policy:
// upstream failures are collapsed into structurally valid empty responses so
// one failed call never takes down a dashboard composed of several metrics.
type Service struct {
	client APIClient
}

// NewService creates an activity aggregator over the given client
func NewService(client APIClient) *Service {
	return &Service{client: client}
}

// GetActivities returns a page of activity events. On any failure it returns
// the deterministic empty envelope and never propagates the error.
func (s *Service) GetActivities(ctx context.Context, params backendapi.ActivityParams) *backendapi.PaginatedResponse[backendapi.Activity] {
	resp, err := s.client.GetActivities(ctx, params)
	if err != nil {
		log.Printf("Activity: error fetching activities: %v", err)
		return backendapi.EmptyPage[backendapi.Activity]()
	}
	if resp == nil {
		return backendapi.EmptyPage[backendapi.Activity]()
	}
	return resp
}

// GetActivityStats returns activity counts over the three fixed windows,
// zeroed on any failure.
func (s *Service) GetActivityStats(ctx context.Context) *backendapi.Response[backendapi.ActivityStats] {
	resp, err := s.client.GetActivityStats(ctx)
	if err != nil {
		log.Printf("Activity: error fetching activity stats: %v", err)
		return &backendapi.Response[backendapi.ActivityStats]{Success: false}
	}
	if resp == nil {
		return &backendapi.Response[backendapi.ActivityStats]{Success: false}
	}
	return resp
}

// CountBuys counts all-time buy events by paging through the activity feed.
// Failures end the loop with whatever was counted so far.
func (s *Service) CountBuys(ctx context.Context) int {
	total := 0

	for page := 1; page <= MaxActivityPages; page++ {
		resp := s.GetActivities(ctx, backendapi.ActivityParams{
			Page:  page,
			Limit: ActivityPageLimit,
			Type:  backendapi.ActivityBuy,
		})

		total += len(resp.Data)

		if !resp.Pagination.HasNext {
			break
		}
	}

	return total
}
