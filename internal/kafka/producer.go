package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// Producer publishes rebalance outcomes for downstream consumers (the
// notification service and the analytics sink).
type Producer struct {
	writer *kafka.Writer
}

// NewProducer creates a Kafka producer for the rebalance topic
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// RebalanceExecutedEvent is the message envelope for a recorded rebalance.
type RebalanceExecutedEvent struct {
	EventType string                 `json:"event_type"`
	Source    string                 `json:"source"`
	Timestamp string                 `json:"timestamp"`
	Data      *models.RebalanceEvent `json:"data"`
}

// PublishRebalanceExecuted publishes one rebalance outcome, keyed by
// allocation so per-allocation ordering is preserved.
func (p *Producer) PublishRebalanceExecuted(ctx context.Context, ev *models.RebalanceEvent) error {
	payload, err := json.Marshal(RebalanceExecutedEvent{
		EventType: "REBALANCE_EXECUTED",
		Source:    "sentiment-engine",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      ev,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rebalance event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(ev.AllocationID)),
		Value: payload,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish rebalance event: %w", err)
	}
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
