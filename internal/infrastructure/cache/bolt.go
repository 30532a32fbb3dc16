package cache

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nutriscan/backend/internal/domain"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketProducts = []byte("products")
	bucketExpiry   = []byte("expiry")
)

// BoltCache is a durable product cache backed by a bbolt file, surviving
// process restarts. Alongside the products bucket it keeps an expiry index
// bucket whose keys sort by expiration time, so the purge is a single range
// scan instead of a full walk.
type BoltCache struct {
	db  *bolt.DB
	ttl time.Duration
}

// NewBoltCache opens (or creates) the cache file at path. A zero TTL falls
// back to DefaultTTL.
func NewBoltCache(path string, ttl time.Duration) (*BoltCache, error) {
	if ttl == 0 {
		ttl = DefaultTTL
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache file: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketProducts); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketExpiry)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache buckets: %w", err)
	}

	return &BoltCache{db: db, ttl: ttl}, nil
}

// Get retrieves the cached entry for a barcode. Storage failures surface as
// ErrCacheUnavailable, which callers treat as a miss.
func (c *BoltCache) Get(ctx context.Context, barcode string) (*domain.CachedProduct, error) {
	var entry *domain.CachedProduct

	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketProducts).Get([]byte(barcode))
		if raw == nil {
			return domain.ErrCacheMiss
		}
		var e domain.CachedProduct
		if err := json.Unmarshal(raw, &e); err != nil {
			return fmt.Errorf("%w: decode entry: %v", domain.ErrCacheUnavailable, err)
		}
		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}

	if entry.Expired(time.Now()) {
		return nil, domain.ErrCacheMiss
	}
	return entry, nil
}

// Put upserts a resolved product, stamping cachedAt now and expiresAt
// now + TTL, and maintains the expiry index.
func (c *BoltCache) Put(ctx context.Context, barcode string, product *domain.ScannedProduct) error {
	now := time.Now()
	entry := domain.CachedProduct{
		Barcode:   barcode,
		Product:   *product,
		CachedAt:  now,
		ExpiresAt: now.Add(c.ttl),
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: encode entry: %v", domain.ErrCacheUnavailable, err)
	}

	return c.db.Update(func(tx *bolt.Tx) error {
		products := tx.Bucket(bucketProducts)
		expiry := tx.Bucket(bucketExpiry)

		// Drop the previous index key on upsert so stale expiries don't
		// accumulate.
		if prev := products.Get([]byte(barcode)); prev != nil {
			var old domain.CachedProduct
			if err := json.Unmarshal(prev, &old); err == nil {
				if err := expiry.Delete(expiryKey(old.ExpiresAt, barcode)); err != nil {
					return err
				}
			}
		}

		if err := products.Put([]byte(barcode), raw); err != nil {
			return err
		}
		return expiry.Put(expiryKey(entry.ExpiresAt, barcode), []byte(barcode))
	})
}

// PurgeExpired range-deletes every entry whose expiry has passed.
func (c *BoltCache) PurgeExpired(ctx context.Context) (int, error) {
	purged := 0
	bound := expiryKey(time.Now(), "")

	err := c.db.Update(func(tx *bolt.Tx) error {
		products := tx.Bucket(bucketProducts)
		cursor := tx.Bucket(bucketExpiry).Cursor()

		for k, v := cursor.First(); k != nil && bytes.Compare(k[:8], bound) < 0; k, v = cursor.Next() {
			if err := products.Delete(v); err != nil {
				return err
			}
			if err := cursor.Delete(); err != nil {
				return err
			}
			purged++
		}
		return nil
	})
	if err != nil {
		return purged, fmt.Errorf("%w: purge: %v", domain.ErrCacheUnavailable, err)
	}

	return purged, nil
}

// Close releases the underlying file. Safe to call once the cache is no
// longer in use.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// expiryKey builds an index key that sorts chronologically: 8 big-endian
// bytes of the expiry instant followed by the barcode for uniqueness.
func expiryKey(t time.Time, barcode string) []byte {
	key := make([]byte, 8, 8+len(barcode))
	binary.BigEndian.PutUint64(key, uint64(t.UnixNano()))
	return append(key, barcode...)
}
