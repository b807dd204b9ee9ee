package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/models"
)

func TestConfidence_PerfectAgreement(t *testing.T) {
	c := models.SignalComponents{Lexicon: 0.4, Social: 0.4, NewsTrend: 0.4, LanguageModel: 0.4, Macro: 0.4}
	assert.Equal(t, 1.0, Confidence(c))
}

func TestConfidence_SingleOutlierTriggersDisagreement(t *testing.T) {
	// Four fully bullish signals and one fully bearish must land below the
	// disagreement threshold.
	c := models.SignalComponents{Lexicon: 1, Social: 1, NewsTrend: 1, LanguageModel: 1, Macro: -1}
	conf := Confidence(c)

	assert.Less(t, conf, DisagreementThreshold)
	assert.GreaterOrEqual(t, conf, ConfidenceFloor)
}

func TestConfidence_FloorClamp(t *testing.T) {
	// Maximal spread clamps at the floor rather than going lower.
	c := models.SignalComponents{Lexicon: 1, Social: -1, NewsTrend: 1, LanguageModel: -1, Macro: 1}
	assert.Equal(t, ConfidenceFloor, Confidence(c))
}

func TestConfidence_MildSpreadStaysAboveThreshold(t *testing.T) {
	c := models.SignalComponents{Lexicon: 0.3, Social: 0.2, NewsTrend: 0.4, LanguageModel: 0.3, Macro: 0.25}
	assert.Greater(t, Confidence(c), DisagreementThreshold)
}

func TestResolveDisagreement(t *testing.T) {
	tests := []struct {
		name      string
		fearGreed int
		signal    string
		nudge     float64
	}{
		{"greedy index breaks bullish", 70, "bullish", 0.1},
		{"floor boundary is bullish", 55, "bullish", 0.1},
		{"fearful index breaks bearish", 20, "bearish", -0.1},
		{"ceiling boundary is bearish", 45, "bearish", -0.1},
		{"middle index stays neutral", 50, "neutral", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ResolveDisagreement(tt.fearGreed)
			assert.Equal(t, "fear_greed", res.Source)
			assert.Equal(t, tt.signal, res.Signal)
			assert.Equal(t, tt.nudge, res.Nudge)
		})
	}
}
