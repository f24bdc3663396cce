// Package marketplace implements the pure filter/sort engine that turns the
// aggregated NFT set into a displayable marketplace projection. It performs
// no I/O and never fails: malformed values exclude a record instead of
// raising an error.
package marketplace

import (
	"math"
	"sort"
	"time"

	"github.com/nftgallery/marketplace-proxy/backendapi"
)

// AllTab is the catch-all category tab that matches every NFT
const AllTab = "all"

// newWindow is the age under which an NFT carries the "New" status label
const newWindow = 7 * 24 * time.Hour

// Status labels understood by the status filter
const (
	StatusBuyNow    = "Buy Now"
	StatusOnAuction = "On Auction"
	StatusNew       = "New"
)

// SortKey selects the ordering of the filtered projection
type SortKey string

const (
	SortRecent    SortKey = "recent"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortEnding    SortKey = "ending"
)

// FilterState is the per-session filter selection. Empty sets are inactive;
// replace the whole value rather than mutating it in place.
type FilterState struct {
	Status      []string
	PriceRange  [2]float64
	Collections []string
	Blockchain  []string
}

// NewFilterState returns the unconstrained filter state: every set empty and
// the price range open at the top
func NewFilterState() FilterState {
	return FilterState{
		PriceRange: [2]float64{0, math.MaxFloat64},
	}
}

// NumericPrice normalizes an NFT price for comparison: an absent price is 0
// and an unparseable one reports ok=false, excluding the NFT from
// price-constrained views rather than panicking mid-filter.
func NumericPrice(nft backendapi.NFT) (float64, bool) {
	return nft.Price.Float()
}

// Apply filters the NFT list conjunctively against the active tab and filter
// state, then sorts the survivors by the given key. Sorting is stable so
// re-renders over unchanged input keep a deterministic order.
func Apply(nfts []backendapi.NFT, activeTab string, filters FilterState, sortBy SortKey) []backendapi.NFT {
	filtered := filter(nfts, activeTab, filters)
	return sortNFTs(filtered, sortBy)
}

func filter(nfts []backendapi.NFT, activeTab string, f FilterState) []backendapi.NFT {
	now := time.Now()
	out := make([]backendapi.NFT, 0, len(nfts))

	for _, nft := range nfts {
		if activeTab != "" && activeTab != AllTab && nft.Category != activeTab {
			continue
		}

		if len(f.Status) > 0 && !matchesAnyStatus(nft, f.Status, now) {
			continue
		}

		price, ok := NumericPrice(nft)
		if !ok || price < f.PriceRange[0] || price > f.PriceRange[1] {
			continue
		}

		if len(f.Collections) > 0 && !contains(f.Collections, nft.Collection.ResolveName()) {
			continue
		}

		if len(f.Blockchain) > 0 && !contains(f.Blockchain, nft.Blockchain) {
			continue
		}

		out = append(out, nft)
	}

	return out
}

// matchesAnyStatus checks the status set any-of: an NFT passes when it
// carries at least one of the selected status labels
func matchesAnyStatus(nft backendapi.NFT, labels []string, now time.Time) bool {
	for _, label := range labels {
		if hasStatus(nft, label, now) {
			return true
		}
	}
	return false
}

func hasStatus(nft backendapi.NFT, label string, now time.Time) bool {
	switch label {
	case StatusBuyNow:
		return nft.IsListed
	case StatusOnAuction:
		return nft.IsAuction
	case StatusNew:
		if nft.CreatedAt == nil {
			return false
		}
		return now.Sub(*nft.CreatedAt) <= newWindow
	default:
		return nft.Status == label
	}
}

func contains(set []string, value string) bool {
	for _, member := range set {
		if member == value {
			return true
		}
	}
	return false
}

func sortNFTs(nfts []backendapi.NFT, sortBy SortKey) []backendapi.NFT {
	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(nfts, func(i, j int) bool {
			pi, _ := NumericPrice(nfts[i])
			pj, _ := NumericPrice(nfts[j])
			return pi < pj
		})
	case SortPriceHigh:
		sort.SliceStable(nfts, func(i, j int) bool {
			pi, _ := NumericPrice(nfts[i])
			pj, _ := NumericPrice(nfts[j])
			return pi > pj
		})
	case SortEnding:
		nfts = auctionsEndingSoon(nfts)
	case SortRecent:
		fallthrough
	default:
		sort.SliceStable(nfts, func(i, j int) bool {
			return createdAt(nfts[i]).After(createdAt(nfts[j]))
		})
	}

	return nfts
}

// auctionsEndingSoon keeps only auctions and orders them by ascending end
// time, with missing end times last and original order preserved on ties
func auctionsEndingSoon(nfts []backendapi.NFT) []backendapi.NFT {
	auctions := make([]backendapi.NFT, 0, len(nfts))
	for _, nft := range nfts {
		if nft.IsAuction {
			auctions = append(auctions, nft)
		}
	}

	sort.SliceStable(auctions, func(i, j int) bool {
		ti, tj := auctions[i].AuctionEndTime, auctions[j].AuctionEndTime
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.Before(*tj)
	})

	return auctions
}

// createdAt treats a missing creation timestamp as epoch zero, sorting such
// records to the end of the recency ordering
func createdAt(nft backendapi.NFT) time.Time {
	if nft.CreatedAt == nil {
		return time.Time{}
	}
	return *nft.CreatedAt
}
