package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/engine"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/marketdata"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// ----------------------------------------------------------------------------
// Mock data provider
// ----------------------------------------------------------------------------

type mockProvider struct {
	mu           sync.Mutex
	fearGreedErr error
}

func (p *mockProvider) FearGreed(ctx context.Context) (marketdata.FearGreedIndex, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fearGreedErr != nil {
		return marketdata.FearGreedIndex{}, p.fearGreedErr
	}
	return marketdata.FearGreedIndex{Value: 60, Level: "Greed", Timestamp: time.Now().Unix()}, nil
}

func (p *mockProvider) AssetPrice(ctx context.Context, assetID string) (float64, error) {
	return 2500, nil
}

func (p *mockProvider) SocialPosts(ctx context.Context) ([]marketdata.SocialPost, error) {
	return nil, nil
}

func (p *mockProvider) NewsHeadlines(ctx context.Context) ([]marketdata.Headline, error) {
	return nil, nil
}

func (p *mockProvider) MacroComposite(ctx context.Context) (float64, error) {
	return 0.2, nil
}

func (p *mockProvider) LanguageModelScore(ctx context.Context) (float64, error) {
	return 60, nil
}

func newSentimentHandler(provider engine.DataProvider) *Handler {
	synth := engine.NewSynthesizer(provider, nil, time.Minute, time.Second, "ethereum")
	return NewHandler(nil, synth, nil, nil, nil)
}

func TestGetSentiment(t *testing.T) {
	h := newSentimentHandler(&mockProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment", nil)
	rr := httptest.NewRecorder()
	h.GetSentiment(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var rec models.SentimentRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.GreaterOrEqual(t, rec.NormalizedScore, 0)
	assert.LessOrEqual(t, rec.NormalizedScore, 100)
	assert.False(t, rec.HighVolatility)
}

func TestGetSentiment_ContextParams(t *testing.T) {
	h := newSentimentHandler(&mockProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment?volatility=high&horizon=short", nil)
	rr := httptest.NewRecorder()
	h.GetSentiment(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var rec models.SentimentRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.True(t, rec.HighVolatility)
}

func TestGetSentiment_RejectsUnknownContextValues(t *testing.T) {
	h := newSentimentHandler(&mockProvider{})

	for _, query := range []string{
		"volatility=bogus",
		"source=telepathy",
		"horizon=forever",
		"maturity=vintage",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment?"+query, nil)
		rr := httptest.NewRecorder()
		h.GetSentiment(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "query %q", query)
	}
}

func TestGetSentiment_ProviderDown(t *testing.T) {
	h := newSentimentHandler(&mockProvider{fearGreedErr: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sentiment", nil)
	rr := httptest.NewRecorder()
	h.GetSentiment(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
