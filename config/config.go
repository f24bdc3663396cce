package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nftgallery/marketplace-proxy/cache"
)

type Config struct {
	MarketplaceAPI MarketplaceAPIConfig `yaml:"marketplace_api"`
	Trending       TrendingConfig       `yaml:"trending"`
	MarketView     MarketViewConfig     `yaml:"market_view"`
	HeroStats      HeroStatsConfig      `yaml:"hero_stats"`
	Cache          cache.Config         `yaml:"cache"`
}

// MarketplaceAPIConfig configures access to the upstream marketplace backend
type MarketplaceAPIConfig struct {
	BaseURL            string        `yaml:"base_url"`
	ConnectionTimeout  time.Duration `yaml:"connection_timeout"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	RateLimitPerSecond float64       `yaml:"rate_limit_per_second"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
	UserAgent          string        `yaml:"user_agent"`
}

type TrendingConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval"`
	CacheTTL       time.Duration `yaml:"cache_ttl"`
}

type MarketViewConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval"`
}

type HeroStatsConfig struct {
	UpdateInterval time.Duration `yaml:"update_interval"`
}

// LoadConfig reads configuration from a YAML file. A missing file is not an
// error: defaults are applied so the service can run against a local backend.
func LoadConfig(path string) (*Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config: %s not found, using defaults", path)
			config.applyDefaults()
			return &config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.MarketplaceAPI.BaseURL == "" {
		c.MarketplaceAPI.BaseURL = "http://localhost:8000"
	}
	if c.MarketplaceAPI.ConnectionTimeout <= 0 {
		c.MarketplaceAPI.ConnectionTimeout = 10 * time.Second
	}
	if c.MarketplaceAPI.RequestTimeout <= 0 {
		c.MarketplaceAPI.RequestTimeout = 30 * time.Second
	}
	if c.MarketplaceAPI.RateLimitPerSecond <= 0 {
		c.MarketplaceAPI.RateLimitPerSecond = 10
	}
	if c.MarketplaceAPI.RateLimitBurst <= 0 {
		c.MarketplaceAPI.RateLimitBurst = 5
	}
	if c.MarketplaceAPI.UserAgent == "" {
		c.MarketplaceAPI.UserAgent = "Mozilla/5.0 Marketplace-Proxy"
	}
	if c.Trending.UpdateInterval <= 0 {
		c.Trending.UpdateInterval = 5 * time.Minute
	}
	if c.Trending.CacheTTL <= 0 {
		c.Trending.CacheTTL = 10 * time.Minute
	}
	if c.MarketView.UpdateInterval <= 0 {
		c.MarketView.UpdateInterval = 2 * time.Minute
	}
	if c.HeroStats.UpdateInterval <= 0 {
		c.HeroStats.UpdateInterval = 10 * time.Minute
	}
	if c.Cache.GoCache.DefaultExpiration <= 0 && c.Cache.GoCache.CleanupInterval <= 0 {
		c.Cache = cache.DefaultConfig()
	}
}
