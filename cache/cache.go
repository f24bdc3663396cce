package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// LoaderFunc loads the value for a key that is missing from the cache.
type LoaderFunc func(key string) ([]byte, error)

// Config represents cache configuration
type Config struct {
	GoCache GoCacheConfig `yaml:"go_cache"`
}

// GoCacheConfig configuration for the in-memory go-cache layer
type GoCacheConfig struct {
	// DefaultExpiration default expiration time for cache items
	DefaultExpiration time.Duration `yaml:"default_expiration"`
	// CleanupInterval interval for cleaning up expired items
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// DefaultConfig returns default cache configuration
func DefaultConfig() Config {
	return Config{
		GoCache: GoCacheConfig{
			DefaultExpiration: 5 * time.Minute,
			CleanupInterval:   10 * time.Minute,
		},
	}
}

// Cache is a byte-oriented in-memory cache backed by go-cache
type Cache struct {
	store *gocache.Cache
}

// New creates a cache with the given configuration
func New(cfg Config) *Cache {
	defaultExpiration := cfg.GoCache.DefaultExpiration
	cleanupInterval := cfg.GoCache.CleanupInterval
	if defaultExpiration <= 0 {
		defaultExpiration = 5 * time.Minute
	}
	if cleanupInterval <= 0 {
		cleanupInterval = 10 * time.Minute
	}

	return &Cache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the cached bytes for key, or found=false on a miss.
// Values stored through other means than Set are treated as misses.
func (c *Cache) Get(key string) ([]byte, bool) {
	value, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	data, ok := value.([]byte)
	if !ok {
		return nil, false
	}
	return data, true
}

// Set stores data under key with the given TTL.
// A ttl of 0 uses the cache default; a negative ttl never expires.
func (c *Cache) Set(key string, data []byte, ttl time.Duration) {
	c.store.Set(key, data, ttl)
}

// GetOrLoad returns the cached value for key, loading and caching it on a miss
func (c *Cache) GetOrLoad(key string, loader LoaderFunc, ttl time.Duration) ([]byte, error) {
	if data, found := c.Get(key); found {
		return data, nil
	}

	data, err := loader(key)
	if err != nil {
		return nil, err
	}

	c.Set(key, data, ttl)
	return data, nil
}

// Delete removes a key from the cache
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all items from the cache
func (c *Cache) Clear() {
	c.store.Flush()
}

// ItemCount returns the number of items currently cached
func (c *Cache) ItemCount() int {
	return c.store.ItemCount()
}
