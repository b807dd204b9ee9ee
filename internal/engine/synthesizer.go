package engine

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/metrics"
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// SentimentCache stores the most recent default-context record for a bounded
// interval. Get returns (nil, nil) on a miss.
type SentimentCache interface {
	GetSentiment(ctx context.Context) (*models.SentimentRecord, error)
	SetSentiment(ctx context.Context, rec *models.SentimentRecord, ttl time.Duration) error
}

// Synthesizer fuses the five signal extractors into published sentiment
// records.
type Synthesizer struct {
	provider       DataProvider
	cache          SentimentCache
	cacheTTL       time.Duration
	signalTimeout  time.Duration
	referenceAsset string
}

// NewSynthesizer creates a Synthesizer. cache may be nil, in which case every
// call recomputes.
func NewSynthesizer(provider DataProvider, cache SentimentCache, cacheTTL, signalTimeout time.Duration, referenceAsset string) *Synthesizer {
	return &Synthesizer{
		provider:       provider,
		cache:          cache,
		cacheTTL:       cacheTTL,
		signalTimeout:  signalTimeout,
		referenceAsset: referenceAsset,
	}
}

// Synthesize produces a sentiment record for the given context. The
// default-context path is served through the cache; context-specific calls
// and bypassCache callers (the orchestrator) always recompute. A cache hit
// short-circuits every extractor call. If the upstream market snapshot fetch
// fails the error is returned as-is; no neutral score is invented here.
func (s *Synthesizer) Synthesize(ctx context.Context, actx models.AnalysisContext, bypassCache bool) (*models.SentimentRecord, error) {
	cacheable := actx.IsDefault() && s.cache != nil

	if cacheable && !bypassCache {
		cached, err := s.cache.GetSentiment(ctx)
		if err != nil {
			log.Printf("Sentiment cache read failed: %v", err)
		} else if cached != nil {
			metrics.SynthesisTotal.WithLabelValues("cache").Inc()
			return cached, nil
		}
	}

	rec, err := s.compute(ctx, actx.Normalize())
	if err != nil {
		return nil, err
	}
	metrics.SynthesisTotal.WithLabelValues("fresh").Inc()

	if cacheable {
		if err := s.cache.SetSentiment(ctx, rec, s.cacheTTL); err != nil {
			log.Printf("Sentiment cache write failed: %v", err)
		}
	}
	return rec, nil
}

// compute runs one full synthesis: snapshot fetch, extractor fan-out,
// weighting, confidence, disagreement resolution and labeling.
func (s *Synthesizer) compute(ctx context.Context, actx models.AnalysisContext) (*models.SentimentRecord, error) {
	fearGreed, err := s.provider.FearGreed(ctx)
	if err != nil {
		return nil, fmt.Errorf("market snapshot unavailable: %w", err)
	}
	lexicon := LexiconSignal(fearGreed.Value)

	// Reference price is informational; the record column is nullable and the
	// feedback loop simply skips records without it.
	var marketPrice *float64
	if price, err := s.provider.AssetPrice(ctx, s.referenceAsset); err != nil {
		log.Printf("Reference price fetch failed for %s: %v", s.referenceAsset, err)
	} else {
		marketPrice = &price
	}

	values, failures := extractSignals(ctx, s.provider, lexicon, s.signalTimeout)
	for name, ferr := range failures {
		metrics.SignalFailures.WithLabelValues(name).Inc()
		log.Printf("Signal %s failed, using fallback: %v", name, ferr)
	}

	components := models.SignalComponents{
		Lexicon:       values[SignalLexicon],
		Social:        values[SignalSocial],
		NewsTrend:     values[SignalNewsTrend],
		LanguageModel: values[SignalLanguageModel],
		Macro:         values[SignalMacro],
	}
	weights := AllocateWeights(actx)
	confidence := Confidence(components)

	rawWeighted := WeightedScore(components, weights)

	rec := &models.SentimentRecord{
		Confidence:     confidence,
		Components:     components,
		Weights:        weights,
		HighVolatility: actx.VolatilityRegime == models.VolatilityHigh,
		RecordedAt:     time.Now().UTC(),
	}

	if confidence < DisagreementThreshold {
		resolution := ResolveDisagreement(fearGreed.Value)
		rawWeighted += resolution.Nudge
		rec.DisagreementResolved = true
		rec.Resolution = &resolution
	}

	// Confidence dampens magnitude, never amplifies it.
	rec.RawScore = clamp(rawWeighted*confidence, -1, 1)
	rec.NormalizedScore = NormalizeScore(rec.RawScore)
	rec.Label = models.LabelForScore(rec.RawScore)
	rec.MarketPriceAtRecording = marketPrice

	return rec, nil
}

// WeightedScore is the raw weighted combination of components.
func WeightedScore(c models.SignalComponents, w models.SignalWeights) float64 {
	cv, wv := c.Values(), w.Values()
	var sum float64
	for i := range cv {
		sum += cv[i] * wv[i]
	}
	return sum
}

// NormalizeScore maps a raw score in [-1, 1] to the 0-100 scale.
func NormalizeScore(raw float64) int {
	return int(math.Round((raw + 1) * 50))
}
