package trending

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/nftgallery/marketplace-proxy/backendapi"
)

const (
	// TopCollections is the size of the served trending ranking
	TopCollections = 4

	// DefaultBucket receives NFTs without a collection during the fold
	DefaultBucket = "Uncategorized"
)

// CollectionStat is one entry of the trending-collection ranking
type CollectionStat struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	FloorPrice float64 `json:"floor_price"`
	Volume     float64 `json:"volume"`
	ItemCount  int     `json:"item_count"`
}

// APIClient is the backend surface the ranker depends on
type APIClient interface {
	GetTrendingCollections(ctx context.Context) (*backendapi.Response[[]backendapi.Collection], error)
	GetNFTs(ctx context.Context, params backendapi.ListingParams) (*backendapi.PaginatedResponse[backendapi.NFT], error)
}

// Ranker derives the trending-collection ranking. It prefers the backend's
// authoritative trending endpoint and falls back to folding the raw NFT
// stream into per-collection aggregates when that endpoint is empty or down.
type Ranker struct {
	client APIClient
}

// NewRanker creates a ranker over the given client
func NewRanker(client APIClient) *Ranker {
	return &Ranker{client: client}
}

// Rank produces the top collections by volume. It never returns an error:
// on total failure the ranking is empty.
func (r *Ranker) Rank(ctx context.Context) []CollectionStat {
	if stats := r.rankFromTrending(ctx); len(stats) > 0 {
		return stats
	}
	return r.rankFromNFTStream(ctx)
}

// rankFromTrending maps the authoritative trending endpoint into the ranking
func (r *Ranker) rankFromTrending(ctx context.Context) []CollectionStat {
	resp, err := r.client.GetTrendingCollections(ctx)
	if err != nil {
		log.Printf("Trending: trending endpoint failed, falling back to NFT stream: %v", err)
		return nil
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil
	}

	stats := make([]CollectionStat, 0, len(resp.Data))
	for _, c := range resp.Data {
		floor, _ := c.FloorPrice.Float()
		stats = append(stats, CollectionStat{
			Name:       c.Name,
			FloorPrice: floor,
			Volume:     c.TotalVolume,
			ItemCount:  c.TotalItems,
		})
	}

	return finalizeRanking(stats)
}

// collectionFold accumulates per-collection aggregates during the fold
type collectionFold struct {
	volume float64
	items  int
	floor  float64 // +Inf until a finite positive price is seen
}

// rankFromNFTStream folds the paginated NFT listing into per-collection
// aggregates: volume sums finite prices (others contribute 0), itemCount
// counts every NFT, and floor tracks the minimum finite strictly positive
// price, defaulting to 0 when a collection never lists one.
func (r *Ranker) rankFromNFTStream(ctx context.Context) []CollectionStat {
	grouped := make(map[string]*collectionFold)

	err := backendapi.WalkNFTs(ctx, r.client, func(nfts []backendapi.NFT) {
		for _, nft := range nfts {
			key := nft.Collection.ResolveName()
			if key == "" {
				key = DefaultBucket
			}

			bucket, ok := grouped[key]
			if !ok {
				bucket = &collectionFold{floor: math.Inf(1)}
				grouped[key] = bucket
			}

			bucket.items++

			price, ok := nft.Price.Float()
			if !ok || !nft.Price.Set {
				continue
			}
			bucket.volume += price
			if price > 0 && price < bucket.floor {
				bucket.floor = price
			}
		}
	})
	if err != nil {
		log.Printf("Trending: NFT stream fold failed: %v", err)
		return []CollectionStat{}
	}

	stats := make([]CollectionStat, 0, len(grouped))
	for name, bucket := range grouped {
		floor := bucket.floor
		if math.IsInf(floor, 1) {
			floor = 0
		}
		stats = append(stats, CollectionStat{
			Name:       name,
			FloorPrice: floor,
			Volume:     bucket.volume,
			ItemCount:  bucket.items,
		})
	}

	return finalizeRanking(stats)
}

// finalizeRanking sorts descending by volume, truncates to the top entries
// and assigns 1-indexed ranks. Name ascending breaks volume ties so the
// ranking is deterministic across refreshes.
func finalizeRanking(stats []CollectionStat) []CollectionStat {
	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Volume != stats[j].Volume {
			return stats[i].Volume > stats[j].Volume
		}
		return stats[i].Name < stats[j].Name
	})

	if len(stats) > TopCollections {
		stats = stats[:TopCollections]
	}

	for i := range stats {
		stats[i].Rank = i + 1
	}

	return stats
}
