// Package dashboard assembles the per-request view model.
package dashboard

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"MarketPulse/internal/market"
	"MarketPulse/internal/model"
	"MarketPulse/internal/trace"
)

// TimestampLayout is the HH:MM:SS clock shown in the page header.
const TimestampLayout = "15:04:05"

// ZoneLayout is the zone abbreviation printed next to the clock.
const ZoneLayout = "MST"

// UnavailableMessage is shown for an index panel without data.
const UnavailableMessage = "data unavailable"

type IndexAnalyzer interface {
	Analyze(ctx context.Context, symbol string) (*model.IndexSnapshot, error)
}

type SentimentSource interface {
	Summarize(ctx context.Context, symbol string) model.SentimentSummary
}

type WorldSource interface {
	Snapshot(ctx context.Context, refs []market.Reference) model.WorldChanges
}

type SessionSource interface {
	Status(now time.Time) model.SessionStatus
}

// Recorder receives dashboard-level gauges. Optional.
type Recorder interface {
	RecordIndexPrice(symbol string, price float64)
	RecordUnavailable(symbol string)
	RecordSentiment(avg float64)
}

// Settings fixes what the controller asks for on every build.
type Settings struct {
	Primary    string
	Secondary  string
	NewsSymbol string
	World      []market.Reference
	Location   *time.Location
}

// Controller runs the analyzers in sequence and composes their outputs.
type Controller struct {
	analyzer  IndexAnalyzer
	sentiment SentimentSource
	world     WorldSource
	session   SessionSource
	settings  Settings
	recorder  Recorder
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option { return func(c *Controller) { c.recorder = r } }

// WithLogger sets the controller's logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Controller) { c.log = l } }

func NewController(analyzer IndexAnalyzer, sentiment SentimentSource, world WorldSource, session SessionSource, settings Settings, opts ...Option) *Controller {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.NewsSymbol == "" {
		settings.NewsSymbol = settings.Primary
	}
	c := &Controller{
		analyzer:  analyzer,
		sentiment: sentiment,
		world:     world,
		session:   session,
		settings:  settings,
		now:       time.Now,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Build produces a fresh view model. It always returns a model; failed index
// analyses are rendered as unavailable panels.
func (c *Controller) Build(ctx context.Context) *model.DashboardViewModel {
	ctx, span := trace.StartSpan(ctx, "dashboard.build")
	defer span.End()

	vm := &model.DashboardViewModel{
		Primary:   c.panel(ctx, c.settings.Primary),
		Secondary: c.panel(ctx, c.settings.Secondary),
		Sentiment: c.sentiment.Summarize(ctx, c.settings.NewsSymbol),
	}
	vm.World = c.world.Snapshot(ctx, c.settings.World)

	now := c.now().In(c.settings.Location)
	if c.session != nil {
		vm.Session = c.session.Status(now)
	}
	vm.Timestamp = now.Format(TimestampLayout)
	vm.Zone = now.Format(ZoneLayout)

	if c.recorder != nil {
		c.recorder.RecordSentiment(vm.Sentiment.Average)
	}
	return vm
}

func (c *Controller) panel(ctx context.Context, symbol string) model.IndexPanel {
	p := model.IndexPanel{Symbol: symbol}
	snap, err := c.analyzer.Analyze(ctx, symbol)
	switch {
	case err != nil:
		c.log.Error().Err(err).Str("symbol", symbol).Msg("index analysis failed")
		p.Err = UnavailableMessage
	case snap == nil:
		c.log.Error().Str("symbol", symbol).Msg("index analysis returned no data")
		p.Err = UnavailableMessage
	default:
		p.Snapshot = snap
	}

	if c.recorder != nil {
		if p.Available() {
			c.recorder.RecordIndexPrice(symbol, snap.Price)
		} else {
			c.recorder.RecordUnavailable(symbol)
		}
	}
	return p
}
