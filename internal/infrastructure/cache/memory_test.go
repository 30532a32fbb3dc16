package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nutriscan/backend/internal/domain"
)

func sampleProduct(barcode string) *domain.ScannedProduct {
	return &domain.ScannedProduct{
		Barcode: barcode,
		Name:    "Test Product",
		Source:  domain.SourceOpenFoodFacts,
		Nutrition: domain.NutritionRecord{
			Calories:    120,
			Protein:     5,
			ServingSize: 100,
			ServingUnit: "g",
		},
	}
}

func TestMemoryCache_PutAndGet(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	if err := c.Put(ctx, "12345678", sampleProduct("12345678")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, err := c.Get(ctx, "12345678")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.Product.Name != "Test Product" {
		t.Errorf("Name = %q, want %q", entry.Product.Name, "Test Product")
	}
	if entry.CachedAt.IsZero() || entry.ExpiresAt.IsZero() {
		t.Error("expected cache timestamps to be stamped")
	}
	if got := entry.ExpiresAt.Sub(entry.CachedAt); got != time.Hour {
		t.Errorf("TTL window = %v, want %v", got, time.Hour)
	}
}

func TestMemoryCache_MissForUnknownBarcode(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	defer c.Close()

	_, err := c.Get(context.Background(), "99999999")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCache_ExpiredEntryIsAbsent(t *testing.T) {
	c := NewMemoryCache(time.Millisecond)
	defer c.Close()
	ctx := context.Background()

	if err := c.Put(ctx, "12345678", sampleProduct("12345678")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, "12345678")
	if !errors.Is(err, domain.ErrCacheMiss) {
		t.Errorf("error = %v, want ErrCacheMiss after expiry", err)
	}
}

func TestMemoryCache_PutUpserts(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	if err := c.Put(ctx, "12345678", sampleProduct("12345678")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	updated := sampleProduct("12345678")
	updated.Name = "Renamed Product"
	if err := c.Put(ctx, "12345678", updated); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entry, err := c.Get(ctx, "12345678")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if entry.Product.Name != "Renamed Product" {
		t.Errorf("Name = %q, want upserted value", entry.Product.Name)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
}

func TestMemoryCache_PurgeExpired(t *testing.T) {
	c := NewMemoryCache(time.Hour)
	defer c.Close()
	ctx := context.Background()

	if err := c.Put(ctx, "11111111", sampleProduct("11111111")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// Force one entry into the past.
	c.mutex.Lock()
	expired := c.data["11111111"]
	expired.ExpiresAt = time.Now().Add(-time.Minute)
	c.data["11111111"] = expired
	c.mutex.Unlock()

	if err := c.Put(ctx, "22222222", sampleProduct("22222222")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	purged, err := c.PurgeExpired(ctx)
	if err != nil {
		t.Fatalf("PurgeExpired() error = %v", err)
	}
	if purged != 1 {
		t.Errorf("purged = %d, want 1", purged)
	}
	if c.Size() != 1 {
		t.Errorf("Size() = %d, want 1", c.Size())
	}
	if _, err := c.Get(ctx, "22222222"); err != nil {
		t.Errorf("fresh entry must survive purge, got: %v", err)
	}
}

func TestMemoryCache_CloseIsIdempotent(t *testing.T) {
	c := NewMemoryCache(time.Hour)

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestMemoryCache_DefaultTTL(t *testing.T) {
	c := NewMemoryCache(0)
	defer c.Close()

	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}
