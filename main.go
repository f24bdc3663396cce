package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nftgallery/marketplace-proxy/activity"
	"github.com/nftgallery/marketplace-proxy/api"
	"github.com/nftgallery/marketplace-proxy/backendapi"
	"github.com/nftgallery/marketplace-proxy/cache"
	"github.com/nftgallery/marketplace-proxy/config"
	"github.com/nftgallery/marketplace-proxy/herostats"
	"github.com/nftgallery/marketplace-proxy/marketplace"
	"github.com/nftgallery/marketplace-proxy/metrics"
	"github.com/nftgallery/marketplace-proxy/trending"
)

func main() {
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, stopping services...")
		cancel()
	}()

	// Backend API client shared by every aggregation service
	clientOpts := backendapi.ClientOptions{
		ConnectionTimeout: cfg.MarketplaceAPI.ConnectionTimeout,
		RequestTimeout:    cfg.MarketplaceAPI.RequestTimeout,
		RatePerSecond:     cfg.MarketplaceAPI.RateLimitPerSecond,
		Burst:             cfg.MarketplaceAPI.RateLimitBurst,
		LogPrefix:         "Backend",
	}
	httpClient := backendapi.NewHTTPClient(clientOpts, metrics.NewRequestStatusWriter("backend"))
	backendClient := backendapi.NewClient(cfg.MarketplaceAPI.BaseURL, httpClient)
	backendClient.SetUserAgent(cfg.MarketplaceAPI.UserAgent)

	store := cache.New(cfg.Cache)

	activityService := activity.NewService(backendClient)

	trendingService := trending.NewService(cfg, store, backendClient)
	if err := trendingService.Start(ctx); err != nil {
		log.Fatal("Failed to start trending service:", err)
	}
	defer trendingService.Stop()

	marketView := marketplace.NewService(cfg, backendClient)
	if err := marketView.Start(ctx); err != nil {
		log.Fatal("Failed to start market view service:", err)
	}
	defer marketView.Stop()

	heroStats := herostats.NewService(cfg, backendClient, activityService)
	if err := heroStats.Start(ctx); err != nil {
		log.Fatal("Failed to start hero stats service:", err)
	}
	defer heroStats.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := api.New(port, backendClient, store, activityService, trendingService, marketView, heroStats)
	if err := server.Start(ctx); err != nil {
		log.Fatal("Server failed:", err)
	}
	defer server.Stop()

	<-ctx.Done()
}
