package domain

import "context"

// ProductCache is the local store of previously resolved products, keyed by
// barcode. Implementations must be safe for concurrent use. A failing Get is
// treated by callers as a miss; a failing Put never fails the resolution that
// produced the record.
type ProductCache interface {
	Get(ctx context.Context, barcode string) (*CachedProduct, error)
	Put(ctx context.Context, barcode string, product *ScannedProduct) error
	// PurgeExpired deletes every entry whose expiry has passed and reports
	// how many were removed.
	PurgeExpired(ctx context.Context) (int, error)
	Close() error
}

// ProductLookupClient fetches the raw upstream payload for a barcode.
// Returns ErrProductNotFound for an unregistered barcode and a wrapped
// ErrLookupFailed on transport or parse failure.
type ProductLookupClient interface {
	FetchProduct(ctx context.Context, barcode string) (*RawProduct, error)
}
