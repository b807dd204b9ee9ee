package engine

import (
	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

// Base macro share, keyed by volatility regime. The regime decides the macro
// share first; the remaining mass is then split among the other four signals
// so the context tilts never dilute macro relevance.
var macroShareByRegime = map[models.VolatilityRegime]float64{
	models.VolatilityLow:    0.10,
	models.VolatilityNormal: 0.15,
	models.VolatilityHigh:   0.25,
}

// fourWayRatio splits the non-macro mass among lexicon, social, newsTrend and
// languageModel, in that order.
type fourWayRatio struct {
	lexicon, social, news, lm float64
}

var (
	ratioMixed  = fourWayRatio{0.25, 0.20, 0.25, 0.30}
	ratioSocial = fourWayRatio{0.30, 0.20, 0.15, 0.35}
	ratioNews   = fourWayRatio{0.15, 0.10, 0.25, 0.50}
)

// Additive tilt magnitudes applied after the base split.
const (
	horizonTilt  = 0.03
	maturityTilt = 0.02
)

// AllocateWeights produces the per-signal weight vector for a context. The
// result always sums to 1.
func AllocateWeights(ctx models.AnalysisContext) models.SignalWeights {
	ctx = ctx.Normalize()

	macro := macroShareByRegime[ctx.VolatilityRegime]
	remaining := 1 - macro

	ratio := ratioMixed
	switch ctx.DataSource {
	case models.SourceSocial:
		ratio = ratioSocial
	case models.SourceNews:
		ratio = ratioNews
	}

	w := models.SignalWeights{
		Lexicon:       ratio.lexicon * remaining,
		Social:        ratio.social * remaining,
		NewsTrend:     ratio.news * remaining,
		LanguageModel: ratio.lm * remaining,
		Macro:         macro,
	}

	switch ctx.TimeHorizon {
	case models.HorizonShort:
		// Short horizons react to crowd mood faster than model reasoning.
		w.Lexicon += horizonTilt
		w.LanguageModel -= horizonTilt
	case models.HorizonLong:
		w.LanguageModel += horizonTilt
		w.Macro += horizonTilt
		w.Lexicon -= horizonTilt
	}

	if ctx.AssetMaturity == models.MaturityNew {
		// New assets have thin social history; lean on the index instead.
		w.Lexicon += maturityTilt
		w.Social -= maturityTilt
	}

	return renormalize(w)
}

// renormalize scales the vector back to sum exactly 1, flooring any weight
// the tilts pushed negative.
func renormalize(w models.SignalWeights) models.SignalWeights {
	const floor = 0.01
	if w.Lexicon < floor {
		w.Lexicon = floor
	}
	if w.Social < floor {
		w.Social = floor
	}
	if w.NewsTrend < floor {
		w.NewsTrend = floor
	}
	if w.LanguageModel < floor {
		w.LanguageModel = floor
	}
	if w.Macro < floor {
		w.Macro = floor
	}

	sum := w.Sum()
	w.Lexicon /= sum
	w.Social /= sum
	w.NewsTrend /= sum
	w.LanguageModel /= sum
	w.Macro /= sum
	return w
}
