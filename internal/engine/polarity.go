package engine

import "strings"

// polarityLexicon scores individual words for market mood. Values are in
// [-1, 1]; words absent from the table contribute nothing.
var polarityLexicon = map[string]float64{
	// bullish
	"moon":       1.0,
	"bullish":    0.9,
	"pump":       0.8,
	"rally":      0.8,
	"surge":      0.8,
	"breakout":   0.7,
	"ath":        0.7,
	"adoption":   0.6,
	"upgrade":    0.5,
	"gain":       0.5,
	"gains":      0.5,
	"buy":        0.4,
	"accumulate": 0.4,
	"growth":     0.4,
	"strong":     0.3,
	"up":         0.3,
	"higher":     0.3,
	"recovery":   0.3,

	// bearish
	"crash":     -1.0,
	"rug":       -0.9,
	"rekt":      -0.9,
	"bearish":   -0.9,
	"dump":      -0.8,
	"plunge":    -0.8,
	"collapse":  -0.8,
	"hack":      -0.8,
	"exploit":   -0.7,
	"liquidate": -0.7,
	"selloff":   -0.7,
	"fear":      -0.6,
	"fud":       -0.6,
	"ban":       -0.6,
	"lawsuit":   -0.5,
	"sell":      -0.4,
	"drop":      -0.4,
	"weak":      -0.3,
	"down":      -0.3,
	"lower":     -0.3,
}

// PolarityScore scores a block of text in [-1, 1] by averaging the lexicon
// values of the words it matches. Text with no scored words is neutral.
func PolarityScore(text string) float64 {
	matched := 0
	total := 0.0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;\"'()[]#$")
		if score, ok := polarityLexicon[word]; ok {
			total += score
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	avg := total / float64(matched)
	return clamp(avg, -1, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
