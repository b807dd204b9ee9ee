package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LayerCondition decides when a strategy layer is active.
type LayerCondition string

const (
	ConditionAlways         LayerCondition = "Always"
	ConditionBullish        LayerCondition = "Bullish"
	ConditionBearish        LayerCondition = "Bearish"
	ConditionNeutral        LayerCondition = "Neutral"
	ConditionEuphoric       LayerCondition = "Euphoric"
	ConditionHighVolatility LayerCondition = "HighVolatility"
	ConditionAIAdaptive     LayerCondition = "AIAdaptive"
)

// ValidCondition reports whether s names a known layer condition.
func ValidCondition(s string) bool {
	switch LayerCondition(s) {
	case ConditionAlways, ConditionBullish, ConditionBearish, ConditionNeutral,
		ConditionEuphoric, ConditionHighVolatility, ConditionAIAdaptive:
		return true
	}
	return false
}

// StrategyLayer is one strategy assigned to an allocation together with its
// activation condition and share of the allocation.
type StrategyLayer struct {
	ID         int            `json:"id"`
	StrategyID string         `json:"strategy_id"`
	Condition  LayerCondition `json:"condition"`
	Weight     float64        `json:"weight"` // [0, 100]
}

// Allocation is a user's strategy configuration for one (wallet, asset) pair.
// When Layers is non-empty the layer weights sum to 100.
type Allocation struct {
	ID            int             `json:"id"`
	WalletAddress string          `json:"wallet_address"`
	AssetID       string          `json:"asset_id"`
	Ecosystem     string          `json:"ecosystem"`
	Layers        []StrategyLayer `json:"layers"`
	AmountUsd     decimal.Decimal `json:"amount_usd"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
