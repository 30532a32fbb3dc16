package cache

import (
	"context"
	"sync"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

// DefaultTTL is how long a resolved product stays valid in the cache.
const DefaultTTL = 7 * 24 * time.Hour

// cleanupInterval is how often the background sweep removes expired entries.
const cleanupInterval = 10 * time.Minute

// MemoryCache is a thread-safe in-memory product cache with TTL support.
// Entries do not survive a restart; use the bolt cache for durability.
type MemoryCache struct {
	ttl   time.Duration
	mutex sync.RWMutex
	data  map[string]domain.CachedProduct
	stop  chan struct{}
	once  sync.Once
}

// NewMemoryCache creates a new in-memory cache. A zero TTL falls back to
// DefaultTTL. A background goroutine sweeps expired entries until Close.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	c := &MemoryCache{
		ttl:  ttl,
		data: make(map[string]domain.CachedProduct),
		stop: make(chan struct{}),
	}

	go c.cleanupLoop()

	return c
}

// Get retrieves the cached entry for a barcode. Expired entries are treated
// as absent.
func (c *MemoryCache) Get(ctx context.Context, barcode string) (*domain.CachedProduct, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.data[barcode]
	if !exists || entry.Expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}

	return &entry, nil
}

// Put upserts a resolved product, stamping cachedAt now and expiresAt
// now + TTL.
func (c *MemoryCache) Put(ctx context.Context, barcode string, product *domain.ScannedProduct) error {
	now := time.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[barcode] = domain.CachedProduct{
		Barcode:   barcode,
		Product:   *product,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	return nil
}

// PurgeExpired removes every entry whose expiry has passed.
func (c *MemoryCache) PurgeExpired(ctx context.Context) (int, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	purged := 0
	for barcode, entry := range c.data {
		if entry.Expired(now) {
			delete(c.data, barcode)
			purged++
		}
	}

	return purged, nil
}

// Close stops the background sweep. Safe to call multiple times.
func (c *MemoryCache) Close() error {
	c.once.Do(func() { close(c.stop) })
	return nil
}

// Size returns the current number of entries (for debugging/monitoring).
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

func (c *MemoryCache) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.PurgeExpired(context.Background())
		case <-c.stop:
			return
		}
	}
}
