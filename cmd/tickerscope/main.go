package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tickerscope/internal/config"
	"tickerscope/internal/logger"
	"tickerscope/internal/provider"
	"tickerscope/internal/render"
	"tickerscope/internal/scanner"
	"tickerscope/internal/sentiment"
	"tickerscope/internal/snapshot"
	"tickerscope/internal/watch"
	"tickerscope/pkg/model"
)

var (
	cfgFile       string
	outputFormat  string
	noColor       bool
	verbose       bool
	workers       int
	compareWindow string
	chartWindow   string
	schedule      string
	marketHours   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tickerscope",
		Short: "Ticker snapshots with headline sentiment and normalized comparisons",
		Long: `Tickerscope refreshes stock tickers from Yahoo Finance and shows:

  - price, daily change, market cap, P/E, 52-week high and volume
  - recent headlines scored BULLISH / BEARISH / NEUTRAL
  - percent-change performance from a common baseline across tickers

Examples:
  tickerscope snapshot TSLA
  tickerscope compare AAPL MSFT NVDA --compare-window 3mo
  tickerscope watch TSLA,COIN --schedule "@every 5m"`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "table", "output format: table, json")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable coloured output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "show detailed output and debug logs")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 4, "number of parallel workers")
	rootCmd.PersistentFlags().StringVar(&chartWindow, "chart-window", "6mo", "per-ticker history window")
	rootCmd.PersistentFlags().StringVar(&compareWindow, "compare-window", "1mo", "comparison window: 1d 5d 1mo 3mo 6mo 1y 2y 5y ytd max")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [TICKER...]",
		Short: "Show a snapshot per ticker (compares when given several)",
		RunE:  runSnapshot,
	}

	compareCmd := &cobra.Command{
		Use:   "compare TICKER [TICKER...]",
		Short: "Compare normalized performance across tickers",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCompare,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [TICKER...]",
		Short: "Refresh snapshots on a schedule until interrupted",
		RunE:  runWatch,
	}
	watchCmd.Flags().StringVar(&schedule, "schedule", "@every 1m", "cron spec for refreshes")
	watchCmd.Flags().BoolVar(&marketHours, "market-hours", false, "only refresh during the US regular session")

	rootCmd.AddCommand(snapshotCmd, compareCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a subcommand needs after config and flags are merged
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	cache    *provider.CachingProvider
	scanner  *scanner.Scanner
	renderer *render.Renderer
}

func setup(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	// Override config with CLI flags
	if cmd.Flags().Changed("workers") {
		cfg.Scanner.Workers = workers
	}
	if cmd.Flags().Changed("compare-window") {
		cfg.Snapshot.CompareWindow = compareWindow
	}
	if cmd.Flags().Changed("chart-window") {
		cfg.Snapshot.ChartWindow = chartWindow
	}
	if cmd.Flags().Changed("schedule") {
		cfg.Watch.Schedule = schedule
	}
	if cmd.Flags().Changed("market-hours") {
		cfg.Watch.MarketHoursOnly = marketHours
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	cache := provider.NewCachingProvider(createProvider(cfg), cfg.Provider.CacheTTL)
	if !cache.IsAvailable() {
		return nil, fmt.Errorf("no available data providers")
	}

	builder := snapshot.NewBuilder(sentiment.NewLexiconScorer(nil), cfg.Snapshot.DisplayNews)
	s := scanner.NewScanner(cache, builder, scanner.Options{
		Workers:       cfg.Scanner.Workers,
		Timeout:       cfg.Scanner.Timeout,
		NewsLimit:     cfg.Snapshot.NewsLimit,
		ChartWindow:   cfg.ChartWindow(),
		CompareWindow: cfg.CompareWindow(),
	}, log)

	log.Debug("configured",
		logger.StringField("provider", cache.Name()),
		logger.IntField("workers", cfg.Scanner.Workers),
		logger.StringField("compare_window", cfg.CompareWindow().String()),
		logger.StringField("chart_window", cfg.ChartWindow().String()))

	return &app{
		cfg:      cfg,
		log:      log,
		cache:    cache,
		scanner:  s,
		renderer: render.New(os.Stdout, render.Options{NoColor: noColor, Verbose: verbose}),
	}, nil
}

// createProvider chains Yahoo with the RSS headline feed as a news fallback
func createProvider(cfg *config.Config) provider.Provider {
	providers := []provider.Provider{
		provider.NewYahooProvider(provider.YahooOptions{
			BaseURL:   cfg.Provider.YahooBaseURL,
			RateLimit: cfg.Provider.RateLimit,
			Timeout:   cfg.Provider.Timeout,
			UserAgent: cfg.Provider.UserAgent,
			Proxy:     cfg.Provider.Proxy,
		}),
	}
	if cfg.Provider.RSSFallback {
		providers = append(providers,
			provider.NewRSSNewsProvider(cfg.Provider.RSSBaseURL, cfg.Provider.UserAgent, cfg.Provider.Timeout))
	}
	return provider.NewFallbackProvider(providers...)
}

func tickers(cfg *config.Config, args []string) ([]string, error) {
	if len(args) == 0 {
		args = cfg.Tickers
	}
	syms := scanner.NormalizeSymbols(args)
	if len(syms) == 0 {
		return nil, fmt.Errorf("no tickers given")
	}
	return syms, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nInterrupted. Stopping...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	return runOnce(cmd, args, false)
}

func runCompare(cmd *cobra.Command, args []string) error {
	return runOnce(cmd, args, true)
}

func runOnce(cmd *cobra.Command, args []string, compare bool) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	syms, err := tickers(a.cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var bar *progressbar.ProgressBar
	if len(syms) > 1 && outputFormat != "json" {
		bar = newProgressBar(len(syms))
		a.scanner.SetProgressCallback(func(done, total int) {
			bar.Set(done)
		})
	}

	var report *model.Report
	if compare {
		report = a.scanner.ScanCompare(ctx, syms)
	} else {
		report = a.scanner.Scan(ctx, syms)
	}

	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	if err := a.renderer.Write(report, outputFormat); err != nil {
		return err
	}
	if report.Failed == len(report.Results) {
		return fmt.Errorf("all %d tickers failed to refresh", report.Failed)
	}
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.log.Sync()

	syms, err := tickers(a.cfg, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	w := watch.New(a.scanner, syms, func(report *model.Report) error {
		if outputFormat != "json" {
			fmt.Fprintf(os.Stdout, "\n=== %s ===\n", report.RunID)
		}
		return a.renderer.Write(report, outputFormat)
	}, watch.Options{
		Schedule:        a.cfg.Watch.Schedule,
		MarketHoursOnly: a.cfg.Watch.MarketHoursOnly,
	}, a.log)
	w.SetFlush(a.cache.Flush)

	return w.Run(ctx)
}

func newProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(!noColor),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Refreshing"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
