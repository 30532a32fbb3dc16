package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nutriscan/backend/internal/domain"
	"github.com/nutriscan/backend/internal/infrastructure/openfoodfacts"
)

// minBarcodeLength is the shortest identifier accepted at the API boundary.
// Barcodes are trusted as authoritative beyond this; no check-digit
// validation is performed.
const minBarcodeLength = 8

// Resolver is the single entry point for turning a barcode into a normalized
// nutrition record, hiding the cache, network and normalization details.
type Resolver struct {
	cache      domain.ProductCache
	client     domain.ProductLookupClient
	normalizer *ServingNormalizer
}

// NewResolver creates a resolver with its cache and lookup collaborators.
func NewResolver(cache domain.ProductCache, client domain.ProductLookupClient) *Resolver {
	return &Resolver{
		cache:      cache,
		client:     client,
		normalizer: NewServingNormalizer(),
	}
}

// Resolve returns the nutrition record for a barcode.
// Flow: check cache -> fetch upstream -> normalize serving -> map -> cache.
// A fresh entry in the cache short-circuits the network entirely. Cache
// failures degrade to a miss or a dropped write and are never propagated.
// No retries are performed; a caller wanting retry-on-transient-failure
// re-invokes Resolve.
func (r *Resolver) Resolve(ctx context.Context, barcode string) (*domain.ScannedProduct, error) {
	if len(barcode) < minBarcodeLength {
		return nil, fmt.Errorf("%w: barcode must be at least %d characters", domain.ErrInvalidRequest, minBarcodeLength)
	}

	if cached := r.getFresh(ctx, barcode); cached != nil {
		product := cached.Product
		product.Source = domain.SourceCache
		return &product, nil
	}

	raw, err := r.client.FetchProduct(ctx, barcode)
	if err != nil {
		return nil, err
	}

	serving := r.normalizer.Normalize(raw)
	product := openfoodfacts.MapToProduct(raw, barcode, serving)

	if err := r.cache.Put(ctx, barcode, product); err != nil {
		// A failed cache write never fails the resolution that produced it.
		log.Printf("[Resolver] cache write failed for %s: %v", barcode, err)
	}

	return product, nil
}

// getFresh returns the cached entry for a barcode if present and unexpired.
// Storage failures are logged and treated as a miss.
func (r *Resolver) getFresh(ctx context.Context, barcode string) *domain.CachedProduct {
	cached, err := r.cache.Get(ctx, barcode)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Printf("[Resolver] cache read failed for %s: %v", barcode, err)
		}
		return nil
	}
	if cached == nil || cached.Expired(time.Now()) {
		return nil
	}
	return cached
}
