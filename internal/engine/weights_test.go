package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

func TestAllocateWeights_SumsToOne(t *testing.T) {
	sources := []models.DataSource{"", models.SourceMixed, models.SourceSocial, models.SourceNews}
	horizons := []models.TimeHorizon{"", models.HorizonShort, models.HorizonMedium, models.HorizonLong}
	maturities := []models.AssetMaturity{"", models.MaturityNew, models.MaturityEstablished}
	regimes := []models.VolatilityRegime{"", models.VolatilityLow, models.VolatilityNormal, models.VolatilityHigh}

	for _, src := range sources {
		for _, hor := range horizons {
			for _, mat := range maturities {
				for _, reg := range regimes {
					ctx := models.AnalysisContext{
						DataSource:       src,
						TimeHorizon:      hor,
						AssetMaturity:    mat,
						VolatilityRegime: reg,
					}
					w := AllocateWeights(ctx)
					assert.InDelta(t, 1.0, w.Sum(), 1e-9, "context %+v", ctx)
					for _, v := range w.Values() {
						assert.GreaterOrEqual(t, v, 0.0, "context %+v", ctx)
					}
				}
			}
		}
	}
}

func TestAllocateWeights_DefaultContext(t *testing.T) {
	w := AllocateWeights(models.AnalysisContext{})

	// Normal regime keeps 15% for macro; the rest splits on the mixed ratio.
	assert.InDelta(t, 0.15, w.Macro, 1e-9)
	assert.InDelta(t, 0.25*0.85, w.Lexicon, 1e-9)
	assert.InDelta(t, 0.20*0.85, w.Social, 1e-9)
	assert.InDelta(t, 0.25*0.85, w.NewsTrend, 1e-9)
	assert.InDelta(t, 0.30*0.85, w.LanguageModel, 1e-9)
}

func TestAllocateWeights_HighVolatilityBoostsMacro(t *testing.T) {
	normal := AllocateWeights(models.AnalysisContext{VolatilityRegime: models.VolatilityNormal})
	high := AllocateWeights(models.AnalysisContext{VolatilityRegime: models.VolatilityHigh})
	low := AllocateWeights(models.AnalysisContext{VolatilityRegime: models.VolatilityLow})

	assert.Greater(t, high.Macro, normal.Macro)
	assert.Greater(t, normal.Macro, low.Macro)
}

func TestAllocateWeights_NewsSourceLeansOnModelAndHeadlines(t *testing.T) {
	mixed := AllocateWeights(models.AnalysisContext{DataSource: models.SourceMixed})
	news := AllocateWeights(models.AnalysisContext{DataSource: models.SourceNews})

	assert.Greater(t, news.LanguageModel, mixed.LanguageModel)
	assert.Less(t, news.Social, mixed.Social)
}

func TestAllocateWeights_SocialSourceLeansOnCrowd(t *testing.T) {
	mixed := AllocateWeights(models.AnalysisContext{DataSource: models.SourceMixed})
	social := AllocateWeights(models.AnalysisContext{DataSource: models.SourceSocial})

	assert.Greater(t, social.Lexicon, mixed.Lexicon)
	assert.Less(t, social.NewsTrend, mixed.NewsTrend)
}

func TestAllocateWeights_HorizonTilts(t *testing.T) {
	medium := AllocateWeights(models.AnalysisContext{TimeHorizon: models.HorizonMedium})
	short := AllocateWeights(models.AnalysisContext{TimeHorizon: models.HorizonShort})
	long := AllocateWeights(models.AnalysisContext{TimeHorizon: models.HorizonLong})

	assert.Greater(t, short.Lexicon, medium.Lexicon)
	assert.Less(t, short.LanguageModel, medium.LanguageModel)
	assert.Greater(t, long.LanguageModel, medium.LanguageModel)
	assert.Greater(t, long.Macro, medium.Macro)
}

func TestAllocateWeights_NewAssetShiftsSocialToIndex(t *testing.T) {
	established := AllocateWeights(models.AnalysisContext{AssetMaturity: models.MaturityEstablished})
	fresh := AllocateWeights(models.AnalysisContext{AssetMaturity: models.MaturityNew})

	assert.Greater(t, fresh.Lexicon, established.Lexicon)
	assert.Less(t, fresh.Social, established.Social)
}
