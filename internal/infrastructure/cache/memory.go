package cache

import (
	"context"
	"sync"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
)

// DefaultCleanupInterval is how often expired descriptions are evicted
const DefaultCleanupInterval = 10 * time.Minute

// entry is a cached description with its expiration
type entry struct {
	value      domain.EnrichmentResult
	expiration time.Time
}

// MemoryCache is a thread-safe in-memory description cache with TTL support
type MemoryCache struct {
	data  map[string]entry
	mutex sync.RWMutex
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemoryCache creates a new in-memory cache that evicts expired entries
// every cleanupInterval. A non-positive interval uses DefaultCleanupInterval.
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}

	c := &MemoryCache{
		data: make(map[string]entry),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go c.cleanupExpired(cleanupInterval)

	return c
}

// Get retrieves a copy of the cached result for key
func (c *MemoryCache) Get(ctx context.Context, key string) (*domain.EnrichmentResult, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || c.now().After(item.expiration) {
		return nil, domain.ErrCacheMiss
	}

	v := item.value
	return &v, nil
}

// Set stores a copy of value under key for ttl
func (c *MemoryCache) Set(ctx context.Context, key string, value *domain.EnrichmentResult, ttl time.Duration) error {
	if value == nil {
		return c.Delete(ctx, key)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = entry{value: *value, expiration: c.now().Add(ttl)}
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the number of stored entries, expired ones included until cleanup
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// Close stops the cleanup goroutine
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *MemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.evict()
		}
	}
}

func (c *MemoryCache) evict() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := c.now()
	for key, item := range c.data {
		if now.After(item.expiration) {
			delete(c.data, key)
		}
	}
}
