// Package app wires configuration into the running dashboard.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"MarketPulse/internal/calculator"
	"MarketPulse/internal/collector"
	"MarketPulse/internal/config"
	"MarketPulse/internal/dashboard"
	"MarketPulse/internal/market"
	"MarketPulse/internal/metrics"
	"MarketPulse/internal/news"
	"MarketPulse/internal/notifier"
	"MarketPulse/internal/sentiment"
	"MarketPulse/internal/server"
	"MarketPulse/internal/session"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Metrics   *metrics.Recorder
	Dashboard *dashboard.Controller
}

// New builds every component from cfg. cfg must already be validated.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	app := &App{Config: cfg, Logger: log}
	if cfg.Metrics.Enabled {
		app.Metrics = metrics.New()
	}

	indexFetcher, worldFetcher, err := app.fetchers()
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("index_source", indexFetcher.Name()).
		Str("world_source", worldFetcher.Name()).
		Msg("data sources ready")

	feed := app.headlineFeed()
	log.Info().Str("news_source", feed.Name()).Msg("headline feed ready")

	cal, err := session.NewCalendar(cfg.Session.OpenCron, cfg.Session.CloseCron, loc)
	if err != nil {
		return nil, fmt.Errorf("session calendar: %w", err)
	}

	refs := make([]market.Reference, len(cfg.World))
	for i, w := range cfg.World {
		refs[i] = market.Reference{Name: w.Name, Symbol: w.Symbol}
	}

	opts := []dashboard.Option{dashboard.WithLogger(log.With().Str("component", "dashboard").Logger())}
	if app.Metrics != nil {
		opts = append(opts, dashboard.WithRecorder(app.Metrics))
	}

	app.Dashboard = dashboard.NewController(
		market.NewAnalyzer(indexFetcher, calculator.NewEngine(),
			market.WithAnalyzerLogger(log.With().Str("component", "analyzer").Logger())),
		sentiment.NewAggregator(feed, sentiment.NewVader(),
			sentiment.WithLimit(cfg.News.Limit),
			sentiment.WithTop(cfg.News.Top),
			sentiment.WithLogger(log.With().Str("component", "sentiment").Logger())),
		market.NewWorld(worldFetcher, log.With().Str("component", "world").Logger()),
		cal,
		dashboard.Settings{
			Primary:    cfg.Indices.Primary,
			Secondary:  cfg.Indices.Secondary,
			NewsSymbol: cfg.News.Symbol,
			World:      refs,
			Location:   loc,
		},
		opts...,
	)
	return app, nil
}

// fetchers returns the source for the tracked indices and the one for world
// indices. World indices are never served by the broker.
func (a *App) fetchers() (collector.Fetcher, collector.Fetcher, error) {
	ds := a.Config.DataSource
	var index, world collector.Fetcher
	switch ds.Provider {
	case "mock":
		mock := &collector.MockFetcher{Price: ds.MockPrice}
		index, world = mock, mock
	case "kite":
		index = collector.NewKiteFetcher(a.Config.Kite.APIKey, a.Config.Kite.AccessToken)
		world = collector.NewYahooFetcher(ds.Proxy, ds.Timeout)
	case "yahoo":
		yahoo := collector.NewYahooFetcher(ds.Proxy, ds.Timeout)
		index, world = yahoo, yahoo
	default:
		return nil, nil, fmt.Errorf("unknown data provider %q", ds.Provider)
	}
	if a.Metrics != nil {
		index = collector.WithObserver(index, a.Metrics)
		world = collector.WithObserver(world, a.Metrics)
	}
	return index, world, nil
}

func (a *App) headlineFeed() news.Feed {
	ds := a.Config.DataSource
	switch a.Config.News.Provider {
	case "mock":
		return &news.StaticFeed{Items: news.DefaultMockHeadlines}
	case "rss":
		return &news.RSSFeed{URLTemplate: a.Config.News.RSSURL, Proxy: ds.Proxy, Timeout: ds.Timeout}
	default:
		return news.NewYahooFeed(collector.NewHTTPClient(ds.Proxy, ds.Timeout))
	}
}

// Serve runs the dashboard and, when enabled, the metrics listener until ctx
// is cancelled or either server fails.
func (a *App) Serve(ctx context.Context) error {
	srvCfg := a.Config.Server
	opts := []server.ServerOption{
		server.WithHost(srvCfg.Host),
		server.WithPort(srvCfg.Port),
		server.WithTimeouts(srvCfg.ReadTimeout, srvCfg.WriteTimeout, srvCfg.ShutdownTimeout),
	}
	if a.Metrics != nil {
		opts = append(opts, server.WithObserver(a.Metrics))
	}
	srv, err := server.NewServer(server.NewDashboardHandler(a.Dashboard), a.Logger, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	running := 1
	go func() { errCh <- srv.Run(ctx) }()
	if a.Metrics != nil {
		running++
		ms := server.NewMetricsServer(a.Config.Metrics.Addr, a.Metrics.Handler(), a.Logger)
		go func() { errCh <- ms.Run(ctx) }()
	}

	var first error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && first == nil {
			first = err
			cancel()
		}
	}
	return first
}

// Snapshot builds one view model, writes it as text and optionally sends it to Telegram.
func (a *App) Snapshot(ctx context.Context, out io.Writer, notify bool) error {
	vm := a.Dashboard.Build(ctx)
	text := notifier.FormatDashboard(vm)
	if _, err := io.WriteString(out, text); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if !notify {
		return nil
	}

	tg := a.Config.Telegram
	tn := notifier.NewTelegramNotifier(tg.BotToken, tg.ChatID, a.Config.DataSource.Proxy, a.Logger)
	if !tn.Configured() {
		return fmt.Errorf("telegram bot_token and chat_id are required for --notify")
	}
	if err := tn.Send(ctx, text); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}
