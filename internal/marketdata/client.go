// Package marketdata adapts the raw external data providers into the numeric
// readings the engine consumes. Every fetch is best-effort JSON over HTTP
// with a short retry; callers decide the fallback policy.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/cenkalti/backoff/v4"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/config"
)

const maxFetchRetries = 2

// Client fetches market data from the configured provider endpoints.
type Client struct {
	httpClient *http.Client
	cfg        config.MarketDataConfig
}

// NewClient creates a market data client.
func NewClient(cfg config.MarketDataConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

// alternative.me payload shape
type fearGreedResponse struct {
	Data []struct {
		Value               string `json:"value"`
		ValueClassification string `json:"value_classification"`
		Timestamp           string `json:"timestamp"`
	} `json:"data"`
	Metadata struct {
		Error *string `json:"error,omitempty"`
	} `json:"metadata"`
}

// FearGreed fetches the current fear & greed index reading.
func (c *Client) FearGreed(ctx context.Context) (FearGreedIndex, error) {
	var raw fearGreedResponse
	url := c.cfg.FearGreedURL + "/fng/?limit=1&format=json"
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return FearGreedIndex{}, fmt.Errorf("fear/greed fetch failed: %w", err)
	}
	if raw.Metadata.Error != nil {
		return FearGreedIndex{}, fmt.Errorf("fear/greed API error: %s", *raw.Metadata.Error)
	}
	if len(raw.Data) == 0 {
		return FearGreedIndex{}, errors.New("fear/greed: no data returned")
	}

	dp := raw.Data[0]
	value, err := strconv.Atoi(dp.Value)
	if err != nil {
		return FearGreedIndex{}, fmt.Errorf("fear/greed: invalid value %q: %w", dp.Value, err)
	}
	ts, _ := strconv.ParseInt(dp.Timestamp, 10, 64)

	return FearGreedIndex{Value: value, Level: dp.ValueClassification, Timestamp: ts}, nil
}

// AssetPrice fetches the current USD reference price for an asset.
func (c *Client) AssetPrice(ctx context.Context, assetID string) (float64, error) {
	var raw map[string]map[string]float64
	url := c.cfg.PriceURL + "/simple/price?ids=" + assetID + "&vs_currencies=usd"
	if err := c.getJSON(ctx, url, &raw); err != nil {
		return 0, fmt.Errorf("price fetch failed for %s: %w", assetID, err)
	}
	price, ok := raw[assetID]["usd"]
	if !ok {
		return 0, fmt.Errorf("price feed returned no usd quote for %s", assetID)
	}
	return price, nil
}

// SocialPosts fetches the aggregated social post window.
func (c *Client) SocialPosts(ctx context.Context) ([]SocialPost, error) {
	var raw struct {
		Posts []SocialPost `json:"posts"`
	}
	if err := c.getJSON(ctx, c.cfg.SocialURL+"/v1/posts", &raw); err != nil {
		return nil, fmt.Errorf("social posts fetch failed: %w", err)
	}
	return raw.Posts, nil
}

// NewsHeadlines fetches the recent headline window.
func (c *Client) NewsHeadlines(ctx context.Context) ([]Headline, error) {
	var raw struct {
		Headlines []Headline `json:"headlines"`
	}
	if err := c.getJSON(ctx, c.cfg.NewsURL+"/v1/headlines", &raw); err != nil {
		return nil, fmt.Errorf("news headlines fetch failed: %w", err)
	}
	return raw.Headlines, nil
}

// MacroComposite fetches the pre-composited macro signal in [-1, 1],
// blended upstream from CPI, policy rate and dollar-index sub-signals.
func (c *Client) MacroComposite(ctx context.Context) (float64, error) {
	var raw struct {
		Composite float64 `json:"composite"`
	}
	if err := c.getJSON(ctx, c.cfg.MacroURL+"/v1/composite", &raw); err != nil {
		return 0, fmt.Errorf("macro composite fetch failed: %w", err)
	}
	return raw.Composite, nil
}

// LanguageModelScore fetches the 0-100 model-scored market read.
func (c *Client) LanguageModelScore(ctx context.Context) (float64, error) {
	var raw struct {
		Score float64 `json:"score"`
	}
	if err := c.getJSON(ctx, c.cfg.LLMScoreURL+"/v1/score", &raw); err != nil {
		return 0, fmt.Errorf("language model score fetch failed: %w", err)
	}
	return raw.Score, nil
}

// getJSON performs a GET with a bounded exponential retry and decodes the
// JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("decode response: %w", err))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxFetchRetries), ctx)
	return backoff.Retry(operation, policy)
}
