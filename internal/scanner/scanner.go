package scanner

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tickerscope/internal/logger"
	"tickerscope/internal/provider"
	"tickerscope/internal/series"
	"tickerscope/internal/snapshot"
	"tickerscope/pkg/model"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(done, total int)

// Options configures a Scanner
type Options struct {
	Workers       int
	Timeout       time.Duration
	NewsLimit     int
	ChartWindow   model.Window
	CompareWindow model.Window
}

// Scanner refreshes snapshots for several tickers in parallel. Each ticker is
// an independent task; one ticker failing never aborts the others.
type Scanner struct {
	provider     provider.Provider
	builder      *snapshot.Builder
	opts         Options
	log          *logger.Logger
	progressFunc ProgressCallback
	now          func() time.Time
}

// NewScanner creates a new scanner
func NewScanner(p provider.Provider, b *snapshot.Builder, opts Options, log *logger.Logger) *Scanner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute
	}
	if opts.ChartWindow == "" {
		opts.ChartWindow = model.Window6M
	}
	if opts.CompareWindow == "" {
		opts.CompareWindow = model.Window1M
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scanner{
		provider: p,
		builder:  b,
		opts:     opts,
		log:      log,
		now:      time.Now,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan refreshes every symbol. With more than one symbol the report also
// carries the normalized comparison across tickers.
func (s *Scanner) Scan(ctx context.Context, symbols []string) *model.Report {
	normalized := NormalizeSymbols(symbols)
	return s.scan(ctx, normalized, len(normalized) > 1)
}

// ScanCompare refreshes every symbol and always builds the comparison
func (s *Scanner) ScanCompare(ctx context.Context, symbols []string) *model.Report {
	return s.scan(ctx, NormalizeSymbols(symbols), true)
}

func (s *Scanner) scan(ctx context.Context, symbols []string, compare bool) *model.Report {
	startTime := s.now()
	report := &model.Report{
		RunID:   uuid.NewString(),
		Tickers: symbols,
		Results: make([]model.TickerResult, len(symbols)),
	}
	log := s.log.With(logger.StringField("run_id", report.RunID))

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	histories := make([]series.History, len(symbols))
	var done int64

	// Each task writes only its own index, so no locking is needed.
	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			report.Results[i], histories[i] = s.refresh(ctx, log, sym, compare)

			n := atomic.AddInt64(&done, 1)
			if s.progressFunc != nil {
				s.progressFunc(int(n), len(symbols))
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, res := range report.Results {
		if res.Err != nil {
			report.Failed++
		}
	}

	if compare {
		ok := make([]series.History, 0, len(histories))
		for i, h := range histories {
			if report.Results[i].Err == nil {
				ok = append(ok, h)
			}
		}
		report.Comparison = series.Compare(s.opts.CompareWindow, ok)
	}

	report.ScanTime = s.now().Sub(startTime)
	log.Info("refresh complete",
		logger.IntField("tickers", len(symbols)),
		logger.IntField("failed", report.Failed),
		logger.DurationField("elapsed", report.ScanTime))
	return report
}

// refresh fetches and assembles one ticker. Only a missing quote is fatal;
// missing news or history degrade to empty inputs.
func (s *Scanner) refresh(ctx context.Context, log *logger.Logger, symbol string, compare bool) (model.TickerResult, series.History) {
	log = log.With(logger.StringField("symbol", symbol))
	result := model.TickerResult{Symbol: symbol}
	hist := series.History{Symbol: symbol}

	quote, err := s.provider.GetQuote(ctx, symbol)
	if err != nil {
		result.Err = provider.Unavailable(symbol, err)
		result.Error = result.Err.Error()
		log.Warn("quote unavailable", logger.ErrorField(err))
		return result, hist
	}

	news, err := s.provider.GetNews(ctx, symbol, s.opts.NewsLimit)
	if err != nil {
		log.Warn("news unavailable, scoring no headlines", logger.ErrorField(err))
		news = nil
	}

	chart, err := s.provider.GetHistory(ctx, symbol, s.opts.ChartWindow)
	if err != nil {
		log.Warn("history unavailable", logger.StringField("window", s.opts.ChartWindow.String()), logger.ErrorField(err))
		chart = nil
	}

	in := snapshot.Input{
		Symbol:  symbol,
		Quote:   quote,
		News:    news,
		History: chart,
		AsOf:    s.now(),
	}

	if compare {
		points := chart
		if s.opts.CompareWindow != s.opts.ChartWindow {
			points, err = s.provider.GetHistory(ctx, symbol, s.opts.CompareWindow)
			if err != nil {
				log.Warn("comparison history unavailable", logger.StringField("window", s.opts.CompareWindow.String()), logger.ErrorField(err))
				points = []model.PricePoint{}
			}
		}
		if points == nil {
			points = []model.PricePoint{}
		}
		in.CompareHistory = points
		in.Normalize = true
		hist.Points = points
	}

	snap, err := s.builder.Build(in)
	if err != nil {
		result.Err = err
		result.Error = err.Error()
		log.Error("building snapshot", logger.ErrorField(err))
		return result, hist
	}
	if snap.SeriesDegenerate {
		log.Warn("zero baseline price, comparison series dropped")
	}

	log.Debug("snapshot built",
		logger.FloatField("avg_polarity", snap.Sentiment.AveragePolarity),
		logger.StringField("label", string(snap.Sentiment.Label)),
		logger.IntField("headlines", snap.Sentiment.Count))

	result.Snapshot = snap
	return result, hist
}

// NormalizeSymbols trims, upper-cases and de-duplicates symbols, keeping
// first-seen order. Comma-separated entries are split.
func NormalizeSymbols(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, entry := range symbols {
		for _, sym := range strings.Split(entry, ",") {
			sym = strings.ToUpper(strings.TrimSpace(sym))
			if sym == "" || seen[sym] {
				continue
			}
			seen[sym] = true
			out = append(out, sym)
		}
	}
	return out
}
