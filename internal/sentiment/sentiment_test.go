package sentiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"MarketPulse/internal/model"
	"MarketPulse/internal/news"
)

func feedOf(titles ...string) *news.StaticFeed {
	items := make([]model.Headline, len(titles))
	for i, t := range titles {
		items[i] = model.Headline{Title: t}
	}
	return &news.StaticFeed{Items: items}
}

func table(scores map[string]float64) Scorer {
	return ScorerFunc(func(text string) float64 { return scores[text] })
}

func TestSummarize_Mean(t *testing.T) {
	a := NewAggregator(feedOf("a", "b", "c"), table(map[string]float64{"a": 0.5, "b": 0.1, "c": 0.0}))
	s := a.Summarize(context.Background(), "^NSEI")
	if s.Average != 0.2 {
		t.Errorf("average: got %v, want 0.2", s.Average)
	}
	if s.Label != model.LabelBullish {
		t.Errorf("label: got %s", s.Label)
	}
	if len(s.TopHeadlines) != 3 || s.TopHeadlines[0].Title != "a" || s.TopHeadlines[0].Score != 0.5 {
		t.Errorf("top headlines: got %+v", s.TopHeadlines)
	}
}

func TestSummarize_SingleHeadline(t *testing.T) {
	title := "Markets rally on rate cut hopes"
	a := NewAggregator(feedOf(title), table(map[string]float64{title: 0.6}))
	s := a.Summarize(context.Background(), "^NSEI")
	if s.Average != 0.6 || s.Label != model.LabelBullish {
		t.Errorf("got %+v", s)
	}
	if len(s.TopHeadlines) != 1 || s.TopHeadlines[0].Score != 0.6 {
		t.Errorf("top headlines: got %+v", s.TopHeadlines)
	}
}

func TestSummarize_LimitAndTop(t *testing.T) {
	titles := make([]string, 15)
	scores := map[string]float64{}
	for i := range titles {
		titles[i] = string(rune('a' + i))
		scores[titles[i]] = -0.2
	}
	feed := feedOf(titles...)
	a := NewAggregator(ignoreLimit{feed}, table(scores))
	s := a.Summarize(context.Background(), "^NSEI")
	if len(s.TopHeadlines) != 5 {
		t.Errorf("expected 5 top headlines, got %d", len(s.TopHeadlines))
	}
	if s.Average != -0.2 || s.Label != model.LabelBearish {
		t.Errorf("got %+v", s)
	}
}

// ignoreLimit returns every item regardless of the requested limit.
type ignoreLimit struct{ *news.StaticFeed }

func (f ignoreLimit) Headlines(ctx context.Context, symbol string, _ int) ([]model.Headline, error) {
	return f.StaticFeed.Headlines(ctx, symbol, -1)
}

func TestSummarize_Empty(t *testing.T) {
	a := NewAggregator(feedOf(), NewVader())
	s := a.Summarize(context.Background(), "^NSEI")
	if s.Average != 0 || s.Label != model.LabelNeutral || s.TopHeadlines == nil || len(s.TopHeadlines) != 0 {
		t.Errorf("expected neutral default, got %+v", s)
	}
}

func TestSummarize_FeedError(t *testing.T) {
	a := NewAggregator(&news.StaticFeed{Err: errors.New("network down")}, NewVader())
	s := a.Summarize(context.Background(), "^NSEI")
	if s.Average != 0 || s.Label != model.LabelNeutral || len(s.TopHeadlines) != 0 {
		t.Errorf("expected neutral default, got %+v", s)
	}
}

func TestSummarize_ScorerPanic(t *testing.T) {
	boom := ScorerFunc(func(string) float64 { panic("bad model") })
	a := NewAggregator(feedOf("x"), boom)
	s := a.Summarize(context.Background(), "^NSEI")
	if s.Label != model.LabelNeutral || s.Average != 0 {
		t.Errorf("expected neutral default, got %+v", s)
	}
}

func TestSummarize_LabelUsesUnroundedMean(t *testing.T) {
	// 0.0504 rounds to 0.05, which alone would classify NEUTRAL.
	a := NewAggregator(feedOf("x"), table(map[string]float64{"x": 0.0504}))
	s := a.Summarize(context.Background(), "^NSEI")
	if s.Average != 0.05 || s.Label != model.LabelBullish {
		t.Errorf("got %+v", s)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		avg  float64
		want model.SentimentLabel
	}{
		{0.05, model.LabelNeutral},
		{0.050001, model.LabelBullish},
		{-0.05, model.LabelNeutral},
		{-0.050001, model.LabelBearish},
		{0, model.LabelNeutral},
		{0.9, model.LabelBullish},
		{-0.9, model.LabelBearish},
	}
	for _, tt := range tests {
		if got := Classify(tt.avg); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.avg, got, tt.want)
		}
	}
}

func TestClassify_Property(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("label agrees with threshold side", prop.ForAll(
		func(avg float64) bool {
			switch Classify(avg) {
			case model.LabelBullish:
				return avg > 0.05
			case model.LabelBearish:
				return avg < -0.05
			default:
				return avg >= -0.05 && avg <= 0.05
			}
		},
		gen.Float64Range(-1, 1),
	))

	properties.TestingRun(t)
}

func TestVader(t *testing.T) {
	v := NewVader()
	tests := []struct {
		text string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"Markets rally on rate cut hopes", 0.1779},
		{"Sensex crashes 1000 points amid global selloff", 0},
		{"Nifty ends flat; HDFC Bank, Reliance drag", 0.2023},
		{"Adani shares plunge after fraud allegations", -0.3818},
		{"The book was good.", 0.4404},
		{"VADER is not smart, handsome, nor funny.", -0.7424},
	}
	for _, tt := range tests {
		if got := v.Score(tt.text); math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("Score(%q): expected %.4f, got %.4f", tt.text, tt.want, got)
		}
	}
}

func TestVader_Labels(t *testing.T) {
	v := NewVader()
	tests := []struct {
		text string
		want model.SentimentLabel
	}{
		{"Markets rally on rate cut hopes", model.LabelBullish},
		{"Nifty ends flat; HDFC Bank, Reliance drag", model.LabelBullish},
		{"Sensex crashes 1000 points amid global selloff", model.LabelNeutral},
		{"Adani shares plunge after fraud allegations", model.LabelBearish},
	}
	for _, tt := range tests {
		if got := Classify(v.Score(tt.text)); got != tt.want {
			t.Errorf("Classify(%q): expected %s, got %s", tt.text, tt.want, got)
		}
	}
}

func TestVader_Bounded(t *testing.T) {
	params := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(params)
	v := NewVader()
	words := []string{"great", "crash", "not", "very", "rally", "fears", "but", "record", "!", "BEST", "weak"}

	properties.Property("compound stays in [-1, 1]", prop.ForAll(
		func(idx []int) bool {
			text := ""
			for _, i := range idx {
				text += words[i] + " "
			}
			s := v.Score(text)
			return !math.IsNaN(s) && s >= -1 && s <= 1
		},
		gen.SliceOf(gen.IntRange(0, len(words)-1)),
	))

	properties.TestingRun(t)
}
