package models

import (
	"fmt"
	"time"
)

// SentimentLabel classifies a synthesized sentiment score.
type SentimentLabel string

const (
	LabelBearish  SentimentLabel = "Bearish"
	LabelNeutral  SentimentLabel = "Neutral"
	LabelBullish  SentimentLabel = "Bullish"
	LabelEuphoric SentimentLabel = "Euphoric"
)

// Raw score thresholds for label classification.
const (
	BearishCeiling = -0.3
	NeutralCeiling = 0.2
	BullishCeiling = 0.6
)

// LabelForScore maps a raw score in [-1, 1] to its sentiment label.
func LabelForScore(raw float64) SentimentLabel {
	switch {
	case raw <= BearishCeiling:
		return LabelBearish
	case raw <= NeutralCeiling:
		return LabelNeutral
	case raw <= BullishCeiling:
		return LabelBullish
	default:
		return LabelEuphoric
	}
}

// SignalComponents holds the five normalized signal values, each in [-1, 1].
type SignalComponents struct {
	Lexicon       float64 `json:"lexicon"`
	Social        float64 `json:"social"`
	NewsTrend     float64 `json:"news_trend"`
	LanguageModel float64 `json:"language_model"`
	Macro         float64 `json:"macro"`
}

// Values returns the components in canonical order.
func (c SignalComponents) Values() [5]float64 {
	return [5]float64{c.Lexicon, c.Social, c.NewsTrend, c.LanguageModel, c.Macro}
}

// SignalWeights holds the per-signal weights, summing to 1.
type SignalWeights struct {
	Lexicon       float64 `json:"lexicon"`
	Social        float64 `json:"social"`
	NewsTrend     float64 `json:"news_trend"`
	LanguageModel float64 `json:"language_model"`
	Macro         float64 `json:"macro"`
}

// Values returns the weights in canonical order.
func (w SignalWeights) Values() [5]float64 {
	return [5]float64{w.Lexicon, w.Social, w.NewsTrend, w.LanguageModel, w.Macro}
}

// Sum returns the total weight mass.
func (w SignalWeights) Sum() float64 {
	return w.Lexicon + w.Social + w.NewsTrend + w.LanguageModel + w.Macro
}

// Resolution records the tie-break outcome when signals disagree strongly.
type Resolution struct {
	Source string  `json:"source"`
	Signal string  `json:"signal"` // bullish, bearish, neutral
	Nudge  float64 `json:"nudge"`
}

// SentimentRecord is one synthesized market mood snapshot. Records are
// append-only; the feedback loop later fills RealizedPriceChange24h and
// IsCorrect exactly once.
type SentimentRecord struct {
	ID                     int              `json:"id"`
	RawScore               float64          `json:"raw_score"`
	NormalizedScore        int              `json:"normalized_score"` // 0-100
	Label                  SentimentLabel   `json:"label"`
	Confidence             float64          `json:"confidence"` // [0.5, 1.0]
	Components             SignalComponents `json:"components"`
	Weights                SignalWeights    `json:"weights"`
	DisagreementResolved   bool             `json:"disagreement_resolved"`
	Resolution             *Resolution      `json:"resolution,omitempty"`
	HighVolatility         bool             `json:"high_volatility"`
	MarketPriceAtRecording *float64         `json:"market_price_at_recording,omitempty"`
	RecordedAt             time.Time        `json:"recorded_at"`
	RealizedPriceChange24h *float64         `json:"realized_price_change_24h,omitempty"`
	IsCorrect              *bool            `json:"is_correct,omitempty"`
}

// Analysis context dimensions. Zero values mean "unspecified" and fall back
// to the neutral defaults in Normalize.
type (
	DataSource       string
	TimeHorizon      string
	AssetMaturity    string
	VolatilityRegime string
)

const (
	SourceSocial DataSource = "social"
	SourceNews   DataSource = "news"
	SourceMixed  DataSource = "mixed"

	HorizonShort  TimeHorizon = "short"
	HorizonMedium TimeHorizon = "medium"
	HorizonLong   TimeHorizon = "long"

	MaturityNew         AssetMaturity = "new"
	MaturityEstablished AssetMaturity = "established"

	VolatilityLow    VolatilityRegime = "low"
	VolatilityNormal VolatilityRegime = "normal"
	VolatilityHigh   VolatilityRegime = "high"
)

// AnalysisContext tunes signal weighting for one synthesis call.
type AnalysisContext struct {
	DataSource       DataSource       `json:"data_source"`
	TimeHorizon      TimeHorizon      `json:"time_horizon"`
	AssetMaturity    AssetMaturity    `json:"asset_maturity"`
	VolatilityRegime VolatilityRegime `json:"volatility_regime"`
}

// Normalize fills unspecified dimensions with their neutral defaults.
func (c AnalysisContext) Normalize() AnalysisContext {
	if c.DataSource == "" {
		c.DataSource = SourceMixed
	}
	if c.TimeHorizon == "" {
		c.TimeHorizon = HorizonMedium
	}
	if c.AssetMaturity == "" {
		c.AssetMaturity = MaturityEstablished
	}
	if c.VolatilityRegime == "" {
		c.VolatilityRegime = VolatilityNormal
	}
	return c
}

// Validate rejects dimension values outside the known enums. Empty values are
// fine; Normalize fills them in later.
func (c AnalysisContext) Validate() error {
	switch c.DataSource {
	case "", SourceSocial, SourceNews, SourceMixed:
	default:
		return fmt.Errorf("unknown data source: %s", c.DataSource)
	}
	switch c.TimeHorizon {
	case "", HorizonShort, HorizonMedium, HorizonLong:
	default:
		return fmt.Errorf("unknown time horizon: %s", c.TimeHorizon)
	}
	switch c.AssetMaturity {
	case "", MaturityNew, MaturityEstablished:
	default:
		return fmt.Errorf("unknown asset maturity: %s", c.AssetMaturity)
	}
	switch c.VolatilityRegime {
	case "", VolatilityLow, VolatilityNormal, VolatilityHigh:
	default:
		return fmt.Errorf("unknown volatility regime: %s", c.VolatilityRegime)
	}
	return nil
}

// IsDefault reports whether the context carries only neutral values, which is
// the cacheable on-demand path.
func (c AnalysisContext) IsDefault() bool {
	n := c.Normalize()
	return n.DataSource == SourceMixed &&
		n.TimeHorizon == HorizonMedium &&
		n.AssetMaturity == MaturityEstablished &&
		n.VolatilityRegime == VolatilityNormal
}
