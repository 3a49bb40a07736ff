package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tickerscope/internal/logger"
	"tickerscope/pkg/model"
)

// Refresher produces a fresh report for a set of symbols
type Refresher interface {
	Scan(ctx context.Context, symbols []string) *model.Report
}

// ReportHandler receives every report the watcher produces
type ReportHandler func(*model.Report) error

// Options configures a Watcher
type Options struct {
	Schedule        string // standard cron spec or descriptor such as "@every 1m"
	MarketHoursOnly bool
	Market          MarketSchedule
}

// Watcher re-runs a refresh on a cron schedule until its context ends.
// Every tick builds new snapshots; reports are never reused across ticks.
type Watcher struct {
	refresher Refresher
	symbols   []string
	handle    ReportHandler
	opts      Options
	log       *logger.Logger

	flush func()
	now   func() time.Time

	mu   sync.Mutex
	runs int
}

// New creates a watcher. A zero Market schedule uses the NYSE session.
func New(r Refresher, symbols []string, handle ReportHandler, opts Options, log *logger.Logger) *Watcher {
	if opts.Market == (MarketSchedule{}) {
		opts.Market = DefaultMarketSchedule()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Watcher{
		refresher: r,
		symbols:   symbols,
		handle:    handle,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// SetFlush registers a hook run before each refresh, used to drop
// provider-level caches so every tick fetches fresh data.
func (w *Watcher) SetFlush(fn func()) {
	w.flush = fn
}

// Runs returns how many refreshes have completed
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Tick performs one refresh. It reports false when the refresh was skipped
// because the market is closed.
func (w *Watcher) Tick(ctx context.Context) (bool, error) {
	if w.opts.MarketHoursOnly {
		status := w.opts.Market.Status(w.now())
		if !status.IsOpen {
			w.log.Info("market closed, skipping refresh",
				logger.StringField("reason", status.Reason),
				logger.StringField("opens_in", FormatDuration(status.TimeToOpen)))
			return false, nil
		}
	}

	if w.flush != nil {
		w.flush()
	}

	report := w.refresher.Scan(ctx, w.symbols)

	w.mu.Lock()
	w.runs++
	w.mu.Unlock()

	if err := w.handle(report); err != nil {
		return true, fmt.Errorf("handling report: %w", err)
	}
	return true, nil
}

// Run refreshes once immediately, then on every schedule tick until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	if _, err := c.AddFunc(w.opts.Schedule, func() {
		if _, err := w.Tick(ctx); err != nil {
			w.log.Error("watch refresh failed", logger.ErrorField(err))
		}
	}); err != nil {
		return fmt.Errorf("registering schedule %q: %w", w.opts.Schedule, err)
	}

	if _, err := w.Tick(ctx); err != nil {
		return err
	}

	c.Start()
	w.log.Info("watch started",
		logger.StringField("schedule", w.opts.Schedule),
		logger.StringsField("tickers", w.symbols))

	<-ctx.Done()

	<-c.Stop().Done()
	w.log.Info("watch stopped", logger.IntField("refreshes", w.Runs()))
	return nil
}
