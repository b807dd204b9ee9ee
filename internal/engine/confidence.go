package engine

import (
	"math"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// Confidence floor and the spread below which signals are considered to agree.
const (
	ConfidenceFloor        = 0.5
	DisagreementThreshold  = 0.6
	disagreementNudge      = 0.1
	tieBreakBullishFloor   = 55
	tieBreakBearishCeiling = 45
)

// Confidence measures agreement across the five components as
// 1 - 0.5*stddev, clamped to [0.5, 1.0]. Sample (n-1) standard deviation: a
// single strong outlier among five agreeing signals must land below the
// disagreement threshold.
func Confidence(c models.SignalComponents) float64 {
	vals := c.Values()
	n := float64(len(vals))

	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= n

	var variance float64
	for _, v := range vals {
		d := v - mean
		variance += d * d
	}
	variance /= n - 1

	return clamp(1-0.5*math.Sqrt(variance), ConfidenceFloor, 1.0)
}

// ResolveDisagreement consults the fear/greed reading as an independent
// tie-break when the components disagree strongly. The metadata is recorded
// even when the nudge is zero.
func ResolveDisagreement(fearGreed int) models.Resolution {
	res := models.Resolution{Source: "fear_greed"}
	switch {
	case fearGreed >= tieBreakBullishFloor:
		res.Signal = "bullish"
		res.Nudge = disagreementNudge
	case fearGreed <= tieBreakBearishCeiling:
		res.Signal = "bearish"
		res.Nudge = -disagreementNudge
	default:
		res.Signal = "neutral"
	}
	return res
}
