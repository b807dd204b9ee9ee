package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/config"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// Cache keys. The sentiment key is deliberately context-free: only the
// default on-demand path is cached, context-specific synthesis recomputes.
const (
	sentimentKey   = "sentiment:latest"
	priceKeyFormat = "price:%s"
)

// Client wraps the Redis client with engine-specific operations
type Client struct {
	rdb *redis.Client
}

// New creates a new Redis client
func New(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks if Redis is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Sentiment snapshot caching

// GetSentiment retrieves the cached sentiment record, or (nil, nil) when the
// cache is cold or expired.
func (c *Client) GetSentiment(ctx context.Context) (*models.SentimentRecord, error) {
	data, err := c.rdb.Get(ctx, sentimentKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var rec models.SentimentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached sentiment: %w", err)
	}
	return &rec, nil
}

// SetSentiment caches a sentiment record with TTL. Writers simply overwrite;
// staleness within the TTL is the accepted trade.
func (c *Client) SetSentiment(ctx context.Context, rec *models.SentimentRecord, ttl time.Duration) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal sentiment record: %w", err)
	}
	return c.rdb.Set(ctx, sentimentKey, data, ttl).Err()
}

// Reference price caching

// SetAssetPrice caches an asset reference price with TTL
func (c *Client) SetAssetPrice(ctx context.Context, assetID string, price float64, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf(priceKeyFormat, assetID), price, ttl).Err()
}

// GetAssetPrice retrieves a cached asset price
func (c *Client) GetAssetPrice(ctx context.Context, assetID string) (float64, error) {
	return c.rdb.Get(ctx, fmt.Sprintf(priceKeyFormat, assetID)).Float64()
}

// Generic operations

// Set stores a value with optional TTL
func (c *Client) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Get retrieves a string value
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	return c.rdb.Get(ctx, key).Result()
}

// Delete removes a key
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}
