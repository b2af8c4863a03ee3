package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/beetlebugorg/cartomap/internal/config"
	"github.com/beetlebugorg/cartomap/internal/logging"
	"github.com/beetlebugorg/cartomap/internal/metrics"
	"github.com/beetlebugorg/cartomap/pkg/cartomap"
	"github.com/beetlebugorg/cartomap/pkg/naturalearth"
)

// app carries the state shared by every subcommand.
type app struct {
	// Global flags
	configPath  string
	logLevel    string
	logFormat   string
	cacheDir    string
	metricsFile string

	cfg      *config.Config
	logger   *zap.Logger
	provider *naturalearth.Provider
}

// run executes the command line and always tears down, so the metrics
// file is written for failed runs too.
func run(ctx context.Context, args []string, stdout io.Writer) error {
	a := &app{}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)

	err := cmd.ExecuteContext(ctx)
	if terr := a.teardown(); err == nil {
		err = terr
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "cartomap",
		Short: "Compose and render maps from Natural Earth data",
		Long: `cartomap draws coastlines, borders, land, water and a coordinate grid
onto a projected map and writes it as PNG.

Feature data is downloaded from Natural Earth on first use and cached on disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ./cartomap.yaml if present)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: console or json")
	root.PersistentFlags().StringVar(&a.cacheDir, "cache-dir", "", "Natural Earth cache directory (default: $XDG_CACHE_HOME/cartomap)")
	root.PersistentFlags().StringVar(&a.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file on exit")

	root.AddCommand(newRenderCmd(a))
	root.AddCommand(newFeaturesCmd(a))
	root.AddCommand(newProjectionsCmd(a))
	root.AddCommand(newRegionsCmd(a))
	root.AddCommand(newFetchCmd(a))
	root.AddCommand(newCacheCmd(a))
	return root
}

// setup loads configuration, applies flag overrides and builds the logger.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = a.logFormat
	}
	if flags.Changed("cache-dir") {
		cfg.Data.CacheDir = a.cacheDir
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.File = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) teardown() error {
	if a.logger != nil {
		defer a.logger.Sync() //nolint:errcheck
	}
	if a.cfg != nil && a.cfg.Metrics.File != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.File); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
		a.logger.Debug("wrote metrics", zap.String("path", a.cfg.Metrics.File))
	}
	return nil
}

// dataProvider returns the shared Natural Earth provider.
func (a *app) dataProvider() (*naturalearth.Provider, error) {
	if a.provider != nil {
		return a.provider, nil
	}
	opts := a.cfg.ProviderOptions()
	opts.Logger = a.logger.Named("naturalearth")
	p, err := naturalearth.NewProvider(opts)
	if err != nil {
		return nil, err
	}
	a.provider = p
	return p, nil
}

func (a *app) composer() (*cartomap.Composer, error) {
	p, err := a.dataProvider()
	if err != nil {
		return nil, err
	}
	opts := cartomap.DefaultComposerOptions()
	opts.Source = p
	opts.DefaultSize = cartomap.Size{Width: a.cfg.Render.Width, Height: a.cfg.Render.Height}
	opts.Margin = a.cfg.Render.Margin
	opts.Logger = a.logger
	return cartomap.NewComposer(opts)
}
