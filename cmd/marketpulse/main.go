package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"MarketPulse/internal/app"
	"MarketPulse/internal/config"
	"MarketPulse/internal/logging"
	"MarketPulse/internal/trace"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string

	rootCmd := &cobra.Command{
		Use:           "marketpulse",
		Short:         "MarketPulse - Indian index dashboard",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", defaultConfigPath(), "path to config.yaml")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfgPath)
		},
	})

	var notify bool
	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print one dashboard snapshot as text",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, shutdown, err := bootstrap(cfgPath)
			if err != nil {
				return err
			}
			defer shutdown()
			return a.Snapshot(cmd.Context(), cmd.OutOrStdout(), notify)
		},
	}
	snapshotCmd.Flags().BoolVar(&notify, "notify", false, "also send the snapshot to Telegram")
	rootCmd.AddCommand(snapshotCmd)

	return rootCmd
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

func runServe(ctx context.Context, cfgPath string) error {
	a, shutdown, err := bootstrap(cfgPath)
	if err != nil {
		return err
	}
	defer shutdown()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Info().Str("version", version).Msg("MarketPulse starting")
	if err := a.Serve(ctx); err != nil {
		return err
	}
	a.Logger.Info().Msg("MarketPulse stopped")
	return nil
}

// bootstrap loads config, logging and tracing, then builds the app.
func bootstrap(cfgPath string) (*app.App, func(), error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("config validation: %w", err)
	}

	log := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
	})

	if err := trace.Init(cfg.Tracing.Enabled, version); err != nil {
		log.Warn().Err(err).Msg("tracing disabled")
	}
	shutdown := func() {
		if err := trace.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("trace shutdown")
		}
	}

	a, err := app.New(cfg, log)
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	logStartup(log, cfg)
	return a, shutdown, nil
}

func logStartup(log zerolog.Logger, cfg *config.Config) {
	log.Info().
		Str("addr", cfg.Addr()).
		Str("provider", cfg.DataSource.Provider).
		Str("news", cfg.News.Provider).
		Str("timezone", cfg.Timezone).
		Bool("metrics", cfg.Metrics.Enabled).
		Bool("tracing", cfg.Tracing.Enabled).
		Msg("config loaded")
}
