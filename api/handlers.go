package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nftgallery/marketplace-proxy/backendapi"
	"github.com/nftgallery/marketplace-proxy/marketplace"
)

const nftDetailCacheTTL = 0 // cache default

// handleMarketplace serves the filtered/sorted marketplace projection
func (s *Server) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	filters, activeTab, sortBy := parseMarketplaceQuery(r)

	nfts := s.marketView.View(activeTab, filters, sortBy)

	s.sendJSONResponse(w, map[string]interface{}{
		"success": true,
		"data":    nfts,
		"total":   len(nfts),
	})
}

// parseMarketplaceQuery maps query parameters onto a filter state, tab and
// sort key. Absent parameters leave the filter unconstrained.
func parseMarketplaceQuery(r *http.Request) (marketplace.FilterState, string, marketplace.SortKey) {
	query := r.URL.Query()

	filters := marketplace.NewFilterState()
	filters.Status = splitParam(query.Get("status"))
	filters.Collections = splitParam(query.Get("collections"))
	filters.Blockchain = splitParam(query.Get("blockchain"))

	if raw := query.Get("price_min"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.PriceRange[0] = v
		}
	}
	if raw := query.Get("price_max"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			filters.PriceRange[1] = v
		}
	}

	activeTab := query.Get("tab")
	if activeTab == "" {
		activeTab = marketplace.AllTab
	}

	sortBy := marketplace.SortKey(query.Get("sort"))
	if sortBy == "" {
		sortBy = marketplace.SortRecent
	}

	return filters, activeTab, sortBy
}

// handleTrendingCollections serves the trending-collection ranking
func (s *Server) handleTrendingCollections(w http.ResponseWriter, r *http.Request) {
	stats := s.trendingService.GetTrending()
	if stats == nil {
		http.Error(w, "No data available", http.StatusServiceUnavailable)
		return
	}

	s.sendJSONResponse(w, map[string]interface{}{
		"success": true,
		"data":    stats,
	})
}

// handleActivity proxies the activity feed through the aggregator, so a
// backend failure yields the degraded empty envelope instead of an error
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := backendapi.ActivityParams{
		Type:       query.Get("type"),
		TimeFilter: query.Get("time_filter"),
		Search:     query.Get("search"),
	}
	if page, err := strconv.Atoi(query.Get("page")); err == nil && page > 0 {
		params.Page = page
	}
	if limit, err := strconv.Atoi(query.Get("limit")); err == nil && limit > 0 {
		params.Limit = limit
	}

	s.sendJSONResponse(w, s.activityService.GetActivities(r.Context(), params))
}

// handleActivityStats serves activity counts over the fixed windows
func (s *Server) handleActivityStats(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, s.activityService.GetActivityStats(r.Context()))
}

// handleHeroStats serves the landing-page metrics
func (s *Server) handleHeroStats(w http.ResponseWriter, r *http.Request) {
	s.sendJSONResponse(w, map[string]interface{}{
		"success": true,
		"data":    s.heroStats.GetStats(),
	})
}

// handleNFTDetail serves a single NFT, cached to spare the backend from
// per-card detail traffic
func (s *Server) handleNFTDetail(w http.ResponseWriter, r *http.Request) {
	tokenID, err := strconv.ParseInt(mux.Vars(r)["tokenId"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid token id", http.StatusBadRequest)
		return
	}

	cacheKey := "nft:detail:" + strconv.FormatInt(tokenID, 10)
	data, err := s.store.GetOrLoad(cacheKey, func(string) ([]byte, error) {
		resp, err := s.backendClient.GetNFTDetail(r.Context(), tokenID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(resp)
	}, nftDetailCacheTTL)

	if err != nil {
		if reqErr, ok := err.(*backendapi.RequestError); ok && reqErr.StatusCode == http.StatusNotFound {
			http.Error(w, "NFT not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Backend unavailable", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		return
	}
}

// handleHealth reports per-service health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	services := map[string]string{
		"trending":    "down",
		"market_view": "down",
		"hero_stats":  "down",
	}

	if s.trendingService.Healthy() {
		services["trending"] = "up"
	}
	if s.marketView.Healthy() {
		services["market_view"] = "up"
	}
	if s.heroStats.Healthy() {
		services["hero_stats"] = "up"
	}

	s.sendJSONResponse(w, map[string]interface{}{
		"status":   "ok",
		"services": services,
	})
}
