package marketdata

import (
	"context"
	"log"
	"time"
)

// PriceCache stores recent reference prices. Any read error counts as a
// miss; the caller falls through to the HTTP provider.
type PriceCache interface {
	GetAssetPrice(ctx context.Context, assetID string) (float64, error)
	SetAssetPrice(ctx context.Context, assetID string, price float64, ttl time.Duration) error
}

// CachedPrices wraps a Client so reference price reads go through the cache
// before reaching the HTTP provider. Every other reading passes straight
// through to the embedded client.
type CachedPrices struct {
	*Client
	cache PriceCache
	ttl   time.Duration
}

// NewCachedPrices creates the price-caching wrapper.
func NewCachedPrices(client *Client, cache PriceCache, ttl time.Duration) *CachedPrices {
	return &CachedPrices{Client: client, cache: cache, ttl: ttl}
}

// AssetPrice returns the cached reference price when fresh, fetching and
// repopulating the cache otherwise.
func (c *CachedPrices) AssetPrice(ctx context.Context, assetID string) (float64, error) {
	if price, err := c.cache.GetAssetPrice(ctx, assetID); err == nil {
		return price, nil
	}

	price, err := c.Client.AssetPrice(ctx, assetID)
	if err != nil {
		return 0, err
	}
	if err := c.cache.SetAssetPrice(ctx, assetID, price, c.ttl); err != nil {
		log.Printf("Price cache write failed for %s: %v", assetID, err)
	}
	return price, nil
}
