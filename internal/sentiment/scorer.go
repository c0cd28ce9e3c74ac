package sentiment

import (
	"strings"

	"github.com/jonreiter/govader"
)

// Scorer maps a piece of text to a compound polarity in [-1, 1].
type Scorer interface {
	Score(text string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Score(text string) float64 { return f(text) }

// Vader scores text with the VADER compound polarity. The analyzer is only
// read after construction, so one Vader is safe for concurrent use.
type Vader struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVader loads the VADER lexicon and emoji tables.
func NewVader() *Vader {
	return &Vader{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (v *Vader) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return v.sia.PolarityScores(text).Compound
}
