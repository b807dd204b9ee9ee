package marketdata

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Mock PriceCache
// ---------------------------------------------------------------------------

type mockPriceCache struct {
	mu     sync.Mutex
	prices map[string]float64
	sets   int
	setErr error
}

func newMockPriceCache() *mockPriceCache {
	return &mockPriceCache{prices: make(map[string]float64)}
}

func (m *mockPriceCache) GetAssetPrice(ctx context.Context, assetID string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	price, ok := m.prices[assetID]
	if !ok {
		return 0, errors.New("cache miss")
	}
	return price, nil
}

func (m *mockPriceCache) SetAssetPrice(ctx context.Context, assetID string, price float64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.prices[assetID] = price
	m.sets++
	return nil
}

// ---------------------------------------------------------------------------
// CachedPrices tests
// ---------------------------------------------------------------------------

func TestCachedPrices_MissFetchesAndPopulates(t *testing.T) {
	var fetches int32
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&fetches, 1)
		w.Write([]byte(`{"ethereum":{"usd":2487.31}}`))
	}))
	cache := newMockPriceCache()
	cached := NewCachedPrices(client, cache, time.Minute)

	price, err := cached.AssetPrice(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, 2487.31, price)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	assert.Equal(t, 1, cache.sets)

	// Second read is served from the cache; no extra HTTP fetch.
	price, err = cached.AssetPrice(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, 2487.31, price)
	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
}

func TestCachedPrices_CacheWriteFailureIsNonFatal(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ethereum":{"usd":2487.31}}`))
	}))
	cache := newMockPriceCache()
	cache.setErr = errors.New("redis down")
	cached := NewCachedPrices(client, cache, time.Minute)

	price, err := cached.AssetPrice(context.Background(), "ethereum")
	require.NoError(t, err)
	assert.Equal(t, 2487.31, price)
}

func TestCachedPrices_FetchFailurePropagates(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	cached := NewCachedPrices(client, newMockPriceCache(), time.Minute)

	_, err := cached.AssetPrice(context.Background(), "ethereum")
	assert.Error(t, err)
}

func TestCachedPrices_OtherReadingsPassThrough(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"composite":0.25}`))
	}))
	cached := NewCachedPrices(client, newMockPriceCache(), time.Minute)

	composite, err := cached.MacroComposite(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.25, composite)
}
