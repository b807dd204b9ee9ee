package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RahilBhavan/Quantum-Matrix-sub000/internal/marketdata"
)

func TestPolarityScore(t *testing.T) {
	assert.Equal(t, 0.0, PolarityScore("the quarterly report arrived on schedule"))
	assert.Greater(t, PolarityScore("ETH rally continues, bulls eye new ATH"), 0.0)
	assert.Less(t, PolarityScore("Exchange hack triggers massive selloff"), 0.0)

	// Punctuation around scored words must not hide them.
	assert.Greater(t, PolarityScore("Moon! Pump, rally."), 0.0)
}

func TestPolarityScore_MixedTextAverages(t *testing.T) {
	score := PolarityScore("rally then crash")
	// rally 0.8, crash -1.0 average to -0.1
	assert.InDelta(t, -0.1, score, 1e-9)
}

func TestLexiconSignal(t *testing.T) {
	assert.Equal(t, -1.0, LexiconSignal(0))
	assert.Equal(t, 0.0, LexiconSignal(50))
	assert.Equal(t, 1.0, LexiconSignal(100))
	assert.InDelta(t, 0.5, LexiconSignal(75), 1e-9)
}

func TestSocialSignal_NoPostsIsNeutral(t *testing.T) {
	assert.Equal(t, 0.0, SocialSignal(nil))
	assert.Equal(t, 0.0, SocialSignal([]marketdata.SocialPost{}))
}

func TestSocialSignal_EngagementWeighting(t *testing.T) {
	posts := []marketdata.SocialPost{
		{Title: "massive rally incoming", Score: 5000, Comments: 800},
		{Title: "looks like a dump to me", Score: 3, Comments: 1},
	}
	// The viral bullish post dominates the barely-seen bearish one.
	assert.Greater(t, SocialSignal(posts), 0.0)
}

func TestSocialSignal_UnscoredPostsStayNeutral(t *testing.T) {
	posts := []marketdata.SocialPost{
		{Title: "gm everyone", Score: 100, Comments: 40},
	}
	assert.Equal(t, 0.0, SocialSignal(posts))
}

func TestNewsTrendSignal_NoHeadlinesIsNeutral(t *testing.T) {
	assert.Equal(t, 0.0, NewsTrendSignal(nil))
}

func TestNewsTrendSignal_CredibilityWeighting(t *testing.T) {
	headlines := []marketdata.Headline{
		{Title: "Institutional adoption drives rally", Publisher: "Reuters"},
		{Title: "Protocol crash wipes out pool", Publisher: "randomblog.xyz"},
	}
	// Reuters at 0.95 outweighs the unknown outlet at 0.5.
	assert.Greater(t, NewsTrendSignal(headlines), 0.0)
}

func TestCredibilityFor(t *testing.T) {
	assert.Equal(t, 0.95, credibilityFor("Bloomberg Crypto"))
	assert.Equal(t, 0.90, credibilityFor("CoinDesk"))
	assert.Equal(t, defaultCredibility, credibilityFor("some newsletter"))
}

func TestLanguageModelSignal(t *testing.T) {
	assert.Equal(t, -1.0, LanguageModelSignal(0))
	assert.Equal(t, 0.0, LanguageModelSignal(50))
	assert.Equal(t, 1.0, LanguageModelSignal(100))
	// Out-of-range readings clamp instead of escaping the scale.
	assert.Equal(t, 1.0, LanguageModelSignal(130))
}

func TestFallbackFor(t *testing.T) {
	assert.InDelta(t, 0.45, fallbackFor(SignalLanguageModel, 0.5), 1e-9)
	assert.Equal(t, 0.0, fallbackFor(SignalSocial, 0.5))
	assert.Equal(t, 0.0, fallbackFor(SignalMacro, -0.8))
}
