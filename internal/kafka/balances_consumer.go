package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// BalanceSink receives per-asset USD values from wallet snapshots. The
// portfolio write coalescer implements it.
type BalanceSink interface {
	Enqueue(wallet, assetID string, amount decimal.Decimal)
}

// BalancesEvent represents a wallet balance snapshot from the wallet gateway
type BalancesEvent struct {
	EventType string            `json:"event_type"`
	Source    string            `json:"source"`
	Timestamp string            `json:"timestamp"`
	Data      BalancesEventData `json:"data"`
}

// BalancesEventData holds the snapshot payload
type BalancesEventData struct {
	WalletAddress string         `json:"wallet_address"`
	Ecosystem     string         `json:"ecosystem"`
	Balances      []AssetBalance `json:"balances"`
}

// AssetBalance is one asset's USD value in the snapshot
type AssetBalance struct {
	AssetID   string `json:"asset_id"`
	AmountUsd string `json:"amount_usd"`
}

// BalancesConsumer keeps allocation USD values in sync with wallet snapshots
type BalancesConsumer struct {
	reader *kafka.Reader
	sink   BalanceSink
}

// NewBalancesConsumer creates a Kafka consumer for balance snapshot events
func NewBalancesConsumer(brokers []string, topic, groupID string, sink BalanceSink) *BalancesConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID + "-balances",
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		MaxWait:        1 * time.Second,
		StartOffset:    kafka.LastOffset, // Only new snapshots matter
		CommitInterval: time.Second,
	})

	return &BalancesConsumer{
		reader: reader,
		sink:   sink,
	}
}

// Start begins consuming messages from Kafka
func (c *BalancesConsumer) Start(ctx context.Context) error {
	log.Printf("Starting balances consumer for topic: %s", c.reader.Config().Topic)

	for {
		select {
		case <-ctx.Done():
			log.Println("Balances consumer shutting down...")
			return c.reader.Close()
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return nil // Context cancelled, normal shutdown
				}
				log.Printf("Error reading balances message: %v", err)
				continue
			}

			if err := c.processMessage(msg); err != nil {
				log.Printf("Error processing balances message: %v", err)
				// Continue processing other messages
			}
		}
	}
}

// processMessage handles a single Kafka message
func (c *BalancesConsumer) processMessage(msg kafka.Message) error {
	var event BalancesEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal balances event: %w", err)
	}

	if event.EventType != "BALANCES_SNAPSHOT" {
		log.Printf("Ignoring event type: %s", event.EventType)
		return nil
	}

	wallet := strings.ToLower(event.Data.WalletAddress)
	if wallet == "" {
		return fmt.Errorf("balances snapshot missing wallet address")
	}

	log.Printf("Processing balances snapshot for %s: %d assets", wallet, len(event.Data.Balances))

	for _, b := range event.Data.Balances {
		amount, err := decimal.NewFromString(b.AmountUsd)
		if err != nil {
			log.Printf("Warning: invalid amount %q for %s/%s: %v", b.AmountUsd, wallet, b.AssetID, err)
			continue
		}
		c.sink.Enqueue(wallet, b.AssetID, amount)
	}
	return nil
}

// Close closes the Kafka consumer
func (c *BalancesConsumer) Close() error {
	return c.reader.Close()
}
