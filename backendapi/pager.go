package backendapi

import (
	"context"
	"log"
	"time"
)

const (
	// MaxNFTPages bounds every NFT pagination loop. The cap is a circuit
	// breaker against a misbehaving backend that always reports has_next.
	MaxNFTPages = 50

	// NFTPageLimit is the page size used by the aggregation loops
	NFTPageLimit = 200
)

// NFTLister fetches a single page of the NFT listing
type NFTLister interface {
	GetNFTs(ctx context.Context, params ListingParams) (*PaginatedResponse[NFT], error)
}

// WalkNFTs pages through the NFT listing, invoking onPage for every non-empty
// page. It stops when the backend reports no further pages, when an empty
// page arrives, when the page cap is hit, or on the first error.
//
// An error on the first page is returned; an error after at least one
// successful page ends the walk with the pages already delivered, so callers
// aggregate partial data instead of failing wholesale.
func WalkNFTs(ctx context.Context, lister NFTLister, onPage func(nfts []NFT)) error {
	startTime := time.Now()
	completedPages := 0
	totalItems := 0

	for page := 1; page <= MaxNFTPages; page++ {
		resp, err := lister.GetNFTs(ctx, ListingParams{Page: page, Limit: NFTPageLimit})
		if err != nil {
			if completedPages > 0 {
				log.Printf("Pager: page %d failed after %d good pages, using partial data: %v",
					page, completedPages, err)
				break
			}
			return err
		}

		if resp == nil || len(resp.Data) == 0 {
			log.Printf("Pager: got empty page %d, stopping pagination", page)
			break
		}

		completedPages++
		totalItems += len(resp.Data)
		onPage(resp.Data)

		if !resp.Pagination.HasNext {
			break
		}
	}

	log.Printf("Pager: walked %d items in %d pages in %.2fs",
		totalItems, completedPages, time.Since(startTime).Seconds())
	return nil
}
