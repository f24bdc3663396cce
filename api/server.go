package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nftgallery/marketplace-proxy/activity"
	"github.com/nftgallery/marketplace-proxy/backendapi"
	"github.com/nftgallery/marketplace-proxy/cache"
	"github.com/nftgallery/marketplace-proxy/herostats"
	"github.com/nftgallery/marketplace-proxy/marketplace"
	"github.com/nftgallery/marketplace-proxy/trending"
)

// Server exposes the aggregated marketplace views over HTTP
type Server struct {
	port            string
	backendClient   *backendapi.Client
	store           *cache.Cache
	activityService *activity.Service
	trendingService *trending.Service
	marketView      *marketplace.Service
	heroStats       *herostats.Service
	server          *http.Server
}

// New creates the HTTP server over the aggregation services
func New(port string, backendClient *backendapi.Client, store *cache.Cache,
	activityService *activity.Service, trendingService *trending.Service,
	marketView *marketplace.Service, heroStats *herostats.Service) *Server {
	return &Server{
		port:            port,
		backendClient:   backendClient,
		store:           store,
		activityService: activityService,
		trendingService: trendingService,
		marketView:      marketView,
		heroStats:       heroStats,
	}
}

// Start begins serving; it returns immediately with the listener running
func (s *Server) Start(ctx context.Context) error {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/marketplace", s.handleMarketplace).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/collections/trending", s.handleTrendingCollections).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/activity", s.handleActivity).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/activity/stats", s.handleActivityStats).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/stats/hero", s.handleHeroStats).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/nfts/{tokenId:[0-9]+}", s.handleNFTDetail).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/ws", s.handleWebsocket)

	router.HandleFunc("/health", s.handleHealth)
	router.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    ":" + s.port,
		Handler: router,
	}

	log.Printf("Server starting at http://localhost:%s", s.port)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the server
func (s *Server) Stop() {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down server: %v", err)
		}
	}
}
