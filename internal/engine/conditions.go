package engine

import (
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// AIAdaptive score bands, over the normalized 0-100 score. Medium overlaps
// both neighbors on purpose: graduated risk exposure, not a partition.
const (
	adaptiveHighFloor     = 61
	adaptiveMediumFloor   = 41
	adaptiveMediumCeiling = 80
	adaptiveLowCeiling    = 60
)

// LayerActive decides whether one strategy layer is currently live. Pure
// function, shared by the UI display path and the rebalance trigger path so
// both always agree.
func LayerActive(cond models.LayerCondition, tier models.RiskTier, rec *models.SentimentRecord) bool {
	switch cond {
	case models.ConditionAlways:
		return true
	case models.ConditionBullish:
		return rec.Label == models.LabelBullish
	case models.ConditionBearish:
		return rec.Label == models.LabelBearish
	case models.ConditionNeutral:
		return rec.Label == models.LabelNeutral
	case models.ConditionEuphoric:
		return rec.Label == models.LabelEuphoric
	case models.ConditionHighVolatility:
		return rec.HighVolatility
	case models.ConditionAIAdaptive:
		return adaptiveActive(tier, rec.NormalizedScore)
	default:
		return false
	}
}

// adaptiveActive aligns a risk tier with the current score band. Every score
// activates at least one tier by construction.
func adaptiveActive(tier models.RiskTier, score int) bool {
	switch tier {
	case models.RiskHigh, models.RiskDegen:
		return score >= adaptiveHighFloor
	case models.RiskMedium:
		return score >= adaptiveMediumFloor && score <= adaptiveMediumCeiling
	case models.RiskLow:
		return score <= adaptiveLowCeiling
	default:
		return false
	}
}

// ActiveStrategies evaluates every layer of an allocation and returns the
// strategy ids of the active ones.
func ActiveStrategies(alloc *models.Allocation, rec *models.SentimentRecord) []string {
	var active []string
	for _, layer := range alloc.Layers {
		strategy, ok := models.StrategyByID(layer.StrategyID)
		if !ok {
			continue
		}
		if LayerActive(layer.Condition, strategy.RiskTier, rec) {
			active = append(active, layer.StrategyID)
		}
	}
	return active
}
