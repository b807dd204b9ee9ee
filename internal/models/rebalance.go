package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rebalance event status transitions: pending -> success | failed.
type RebalanceStatus string

const (
	RebalancePending RebalanceStatus = "pending"
	RebalanceSuccess RebalanceStatus = "success"
	RebalanceFailed  RebalanceStatus = "failed"
)

// Trigger types for rebalance events.
const (
	TriggerSentimentAuto = "sentiment_auto"
	TriggerManual        = "manual"
)

// RebalanceEvent is the audit record of one evaluation outcome for one
// allocation. Paper trades only: a recorded decision, no settlement.
type RebalanceEvent struct {
	ID               int              `json:"id"`
	AllocationID     int              `json:"allocation_id"`
	Ecosystem        string           `json:"ecosystem"`
	AssetID          string           `json:"asset_id"`
	TriggerType      string           `json:"trigger_type"`
	SentimentScore   int              `json:"sentiment_score"` // normalized 0-100
	SentimentLabel   SentimentLabel   `json:"sentiment_label"`
	ActiveStrategies []string         `json:"active_strategies"`
	Status           RebalanceStatus  `json:"status"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	GasCostUsd       *decimal.Decimal `json:"gas_cost_usd,omitempty"`
	ProfitUsd        *decimal.Decimal `json:"profit_usd,omitempty"`
	ExecutedAt       time.Time        `json:"executed_at"`
}
