package trending

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nftgallery/marketplace-proxy/backendapi"
)

// MockAPIClient implements APIClient with configurable responses
type MockAPIClient struct {
	trendingResp *backendapi.Response[[]backendapi.Collection]
	trendingErr  error
	nftPages     map[int]*backendapi.PaginatedResponse[backendapi.NFT]
	nftErr       error
	nftCalls     int
}

func (m *MockAPIClient) GetTrendingCollections(ctx context.Context) (*backendapi.Response[[]backendapi.Collection], error) {
	return m.trendingResp, m.trendingErr
}

func (m *MockAPIClient) GetNFTs(ctx context.Context, params backendapi.ListingParams) (*backendapi.PaginatedResponse[backendapi.NFT], error) {
	m.nftCalls++
	if m.nftErr != nil {
		return nil, m.nftErr
	}
	return m.nftPages[params.Page], nil
}

func singleNFTPage(nfts ...backendapi.NFT) map[int]*backendapi.PaginatedResponse[backendapi.NFT] {
	return map[int]*backendapi.PaginatedResponse[backendapi.NFT]{
		1: {
			Response:   backendapi.Response[[]backendapi.NFT]{Success: true, Data: nfts},
			Pagination: backendapi.Pagination{Page: 1, HasNext: false},
		},
	}
}

func collectionNFT(collection string, price backendapi.Price) backendapi.NFT {
	return backendapi.NFT{
		Collection: backendapi.CollectionRef{Set: true, Name: collection},
		Price:      price,
	}
}

func TestRank_PrefersTrendingEndpoint(t *testing.T) {
	mock := &MockAPIClient{
		trendingResp: &backendapi.Response[[]backendapi.Collection]{
			Success: true,
			Data: []backendapi.Collection{
				{Name: "Apes", TotalVolume: 10, TotalItems: 5, FloorPrice: backendapi.NewPrice(0.5)},
				{Name: "Birds", TotalVolume: 40, TotalItems: 2, FloorPrice: backendapi.NewPrice(2)},
			},
		},
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, 2)
	assert.Equal(t, CollectionStat{Rank: 1, Name: "Birds", FloorPrice: 2, Volume: 40, ItemCount: 2}, stats[0])
	assert.Equal(t, CollectionStat{Rank: 2, Name: "Apes", FloorPrice: 0.5, Volume: 10, ItemCount: 5}, stats[1])
	assert.Zero(t, mock.nftCalls, "fallback must not run when the trending endpoint serves data")
}

func TestRank_FallsBackOnTrendingError(t *testing.T) {
	mock := &MockAPIClient{
		trendingErr: errors.New("503"),
		nftPages: singleNFTPage(
			collectionNFT("Apes", backendapi.NewPrice(1)),
			collectionNFT("Apes", backendapi.NewPrice(3)),
			collectionNFT("Birds", backendapi.NewPrice(0)),
		),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, 2)
	assert.Equal(t, CollectionStat{Rank: 1, Name: "Apes", FloorPrice: 1, Volume: 4, ItemCount: 2}, stats[0])
	// A zero price counts the item but never sets the floor
	assert.Equal(t, CollectionStat{Rank: 2, Name: "Birds", FloorPrice: 0, Volume: 0, ItemCount: 1}, stats[1])
}

func TestRank_FallsBackOnEmptyTrending(t *testing.T) {
	mock := &MockAPIClient{
		trendingResp: &backendapi.Response[[]backendapi.Collection]{Success: true, Data: []backendapi.Collection{}},
		nftPages:     singleNFTPage(collectionNFT("Apes", backendapi.NewPrice(2))),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, 1)
	assert.Equal(t, "Apes", stats[0].Name)
	assert.Positive(t, mock.nftCalls)
}

func TestRank_FoldUnparseablePriceContributesNothing(t *testing.T) {
	var bogus backendapi.Price
	require.NoError(t, bogus.UnmarshalJSON([]byte(`"not-a-number"`)))

	mock := &MockAPIClient{
		trendingErr: errors.New("down"),
		nftPages: singleNFTPage(
			collectionNFT("Apes", bogus),
			collectionNFT("Apes", backendapi.NewPrice(5)),
		),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, 1)
	assert.Equal(t, 5.0, stats[0].Volume)
	assert.Equal(t, 2, stats[0].ItemCount)
	assert.Equal(t, 5.0, stats[0].FloorPrice)
}

func TestRank_FoldUsesDefaultBucket(t *testing.T) {
	mock := &MockAPIClient{
		trendingErr: errors.New("down"),
		nftPages: singleNFTPage(
			backendapi.NFT{Price: backendapi.NewPrice(1)}, // no collection at all
		),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, 1)
	assert.Equal(t, DefaultBucket, stats[0].Name)
}

func TestRank_TruncatesToTopFour(t *testing.T) {
	mock := &MockAPIClient{
		trendingErr: errors.New("down"),
		nftPages: singleNFTPage(
			collectionNFT("A", backendapi.NewPrice(1)),
			collectionNFT("B", backendapi.NewPrice(2)),
			collectionNFT("C", backendapi.NewPrice(3)),
			collectionNFT("D", backendapi.NewPrice(4)),
			collectionNFT("E", backendapi.NewPrice(5)),
		),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, TopCollections)
	assert.Equal(t, []int{1, 2, 3, 4}, []int{stats[0].Rank, stats[1].Rank, stats[2].Rank, stats[3].Rank})
	assert.Equal(t, "E", stats[0].Name)
	assert.Equal(t, "B", stats[3].Name)
}

func TestRank_VolumeTiesBreakByName(t *testing.T) {
	mock := &MockAPIClient{
		trendingErr: errors.New("down"),
		nftPages: singleNFTPage(
			collectionNFT("Zebra", backendapi.NewPrice(3)),
			collectionNFT("Alpha", backendapi.NewPrice(3)),
		),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	require.Len(t, stats, 2)
	assert.Equal(t, "Alpha", stats[0].Name)
	assert.Equal(t, "Zebra", stats[1].Name)
}

func TestRank_TotalFailureGivesEmptyRanking(t *testing.T) {
	mock := &MockAPIClient{
		trendingErr: errors.New("down"),
		nftErr:      errors.New("also down"),
	}
	ranker := NewRanker(mock)

	stats := ranker.Rank(context.Background())

	assert.Empty(t, stats)
}
