package trending

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftgallery/marketplace-proxy/backendapi"
	"github.com/nftgallery/marketplace-proxy/cache"
	"github.com/nftgallery/marketplace-proxy/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Trending: config.TrendingConfig{
			UpdateInterval: time.Hour,
			CacheTTL:       time.Hour,
		},
	}
}

func TestService_RefreshPopulatesSnapshot(t *testing.T) {
	mock := &MockAPIClient{
		trendingResp: &backendapi.Response[[]backendapi.Collection]{
			Success: true,
			Data: []backendapi.Collection{
				{Name: "Apes", TotalVolume: 9, TotalItems: 3, FloorPrice: backendapi.NewPrice(1)},
			},
		},
	}
	service := NewService(testConfig(), cache.New(cache.DefaultConfig()), mock)

	service.refresh(context.Background())

	stats := service.GetTrending()
	require.Len(t, stats, 1)
	assert.Equal(t, "Apes", stats[0].Name)
	assert.Equal(t, 1, stats[0].Rank)
	assert.True(t, service.Healthy())
}

func TestService_NoSnapshotYet(t *testing.T) {
	service := NewService(testConfig(), cache.New(cache.DefaultConfig()), &MockAPIClient{})

	assert.Nil(t, service.GetTrending())
	assert.False(t, service.Healthy())
}

func TestService_SubscribersNotifiedOnRefresh(t *testing.T) {
	mock := &MockAPIClient{
		trendingResp: &backendapi.Response[[]backendapi.Collection]{
			Success: true,
			Data:    []backendapi.Collection{{Name: "Apes", TotalVolume: 1}},
		},
	}
	service := NewService(testConfig(), cache.New(cache.DefaultConfig()), mock)

	sub := service.SubscribeOnUpdate()
	defer sub.Cancel()

	service.refresh(context.Background())

	select {
	case <-sub.Chan():
	case <-time.After(time.Second):
		t.Fatal("expected a refresh notification")
	}
}
