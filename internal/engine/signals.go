package engine

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/marketdata"
)

// DataProvider supplies the raw external readings the extractors normalize.
// Each method is best-effort; extractors translate failures into neutral or
// proxied fallbacks and never propagate them.
type DataProvider interface {
	FearGreed(ctx context.Context) (marketdata.FearGreedIndex, error)
	AssetPrice(ctx context.Context, assetID string) (float64, error)
	SocialPosts(ctx context.Context) ([]marketdata.SocialPost, error)
	NewsHeadlines(ctx context.Context) ([]marketdata.Headline, error)
	MacroComposite(ctx context.Context) (float64, error)
	LanguageModelScore(ctx context.Context) (float64, error)
}

// Signal names, used as map keys in metrics and fan-out results.
const (
	SignalLexicon       = "lexicon"
	SignalSocial        = "social"
	SignalNewsTrend     = "news_trend"
	SignalLanguageModel = "language_model"
	SignalMacro         = "macro"
)

// LexiconSignal converts a 0-100 fear/greed reading to [-1, 1].
func LexiconSignal(fearGreed int) float64 {
	return clamp((float64(fearGreed)-50)/50, -1, 1)
}

// SocialSignal aggregates post polarity weighted by engagement influence.
// Influence grows with the log of score and comment counts so a handful of
// viral posts cannot fully drown the rest. No posts yields neutral.
func SocialSignal(posts []marketdata.SocialPost) float64 {
	var weighted, totalInfluence float64
	for _, p := range posts {
		influence := math.Log10(float64(p.Score)+2) * math.Log10(float64(p.Comments)+2)
		polarity := PolarityScore(p.Title + " " + p.Body)
		weighted += polarity * influence
		totalInfluence += influence
	}
	if totalInfluence == 0 {
		return 0
	}
	return clamp(weighted/totalInfluence, -1, 1)
}

// publisherCredibility weights a headline by its source. Substring match on
// the publisher name; unknown outlets get 0.5.
var publisherCredibility = map[string]float64{
	"bloomberg":     0.95,
	"reuters":       0.95,
	"coindesk":      0.90,
	"theblock":      0.85,
	"cointelegraph": 0.80,
	"decrypt":       0.75,
	"cryptoslate":   0.65,
}

const defaultCredibility = 0.5

func credibilityFor(publisher string) float64 {
	name := strings.ToLower(publisher)
	for key, cred := range publisherCredibility {
		if strings.Contains(name, key) {
			return cred
		}
	}
	return defaultCredibility
}

// NewsTrendSignal aggregates headline polarity weighted by source
// credibility instead of engagement. No headlines yields neutral.
func NewsTrendSignal(headlines []marketdata.Headline) float64 {
	var weighted, totalCred float64
	for _, h := range headlines {
		cred := credibilityFor(h.Publisher)
		weighted += PolarityScore(h.Title) * cred
		totalCred += cred
	}
	if totalCred == 0 {
		return 0
	}
	return clamp(weighted/totalCred, -1, 1)
}

// LanguageModelSignal converts an external 0-100 model score to [-1, 1].
func LanguageModelSignal(score float64) float64 {
	return clamp((score-50)/50, -1, 1)
}

// Dampening applied to the lexicon proxy when the language model is down.
const lmFallbackDampening = 0.9

// signalResult carries one extractor's outcome through the fan-out join.
type signalResult struct {
	name  string
	value float64
	err   error
}

// extractSignals runs the four externally-sourced extractors concurrently,
// each under its own timeout, and joins their (value | error) results. The
// lexicon value is already known from the market snapshot and doubles as the
// language-model fallback proxy. A slow or failed extractor never blocks the
// rest; its fallback is applied at the join.
func extractSignals(ctx context.Context, provider DataProvider, lexicon float64, timeout time.Duration) (map[string]float64, map[string]error) {
	type task struct {
		name string
		run  func(ctx context.Context) (float64, error)
	}

	tasks := []task{
		{SignalSocial, func(ctx context.Context) (float64, error) {
			posts, err := provider.SocialPosts(ctx)
			if err != nil {
				return 0, err
			}
			return SocialSignal(posts), nil
		}},
		{SignalNewsTrend, func(ctx context.Context) (float64, error) {
			headlines, err := provider.NewsHeadlines(ctx)
			if err != nil {
				return 0, err
			}
			return NewsTrendSignal(headlines), nil
		}},
		{SignalLanguageModel, func(ctx context.Context) (float64, error) {
			score, err := provider.LanguageModelScore(ctx)
			if err != nil {
				return 0, err
			}
			return LanguageModelSignal(score), nil
		}},
		{SignalMacro, func(ctx context.Context) (float64, error) {
			composite, err := provider.MacroComposite(ctx)
			if err != nil {
				return 0, err
			}
			return clamp(composite, -1, 1), nil
		}},
	}

	results := make(chan signalResult, len(tasks))
	for _, t := range tasks {
		go func(t task) {
			taskCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			value, err := t.run(taskCtx)
			results <- signalResult{name: t.name, value: value, err: err}
		}(t)
	}

	values := map[string]float64{SignalLexicon: lexicon}
	failures := make(map[string]error)
	for range tasks {
		res := <-results
		if res.err != nil {
			failures[res.name] = res.err
			values[res.name] = fallbackFor(res.name, lexicon)
			continue
		}
		values[res.name] = res.value
	}
	return values, failures
}

// fallbackFor returns the local recovery value for a failed extractor.
func fallbackFor(name string, lexicon float64) float64 {
	if name == SignalLanguageModel {
		return lexicon * lmFallbackDampening
	}
	return 0
}
