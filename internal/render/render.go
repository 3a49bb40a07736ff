package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"

	"tickerscope/internal/format"
	"tickerscope/internal/series"
	"tickerscope/pkg/model"
)

const (
	gaugeWidth     = 20
	sparklineWidth = 40
	nameWidth      = 27
	headlineWidth  = 63
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	orangeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Options configures a Renderer
type Options struct {
	NoColor bool
	Verbose bool
}

// Renderer writes reports as tables or JSON
type Renderer struct {
	out  io.Writer
	opts Options
}

// New creates a renderer writing to out
func New(out io.Writer, opts Options) *Renderer {
	return &Renderer{out: out, opts: opts}
}

// Write renders the report in the named format: table or json
func (r *Renderer) Write(report *model.Report, outputFormat string) error {
	switch outputFormat {
	case "json":
		return r.JSON(report)
	case "table", "":
		return r.Table(report)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

// JSON encodes the report with indentation
func (r *Renderer) JSON(report *model.Report) error {
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// Table renders the metrics table, the normalized comparison (when present)
// and a deep-dive block per ticker.
func (r *Renderer) Table(report *model.Report) error {
	if len(report.Results) == 0 {
		fmt.Fprintln(r.out, "No tickers to show.")
		return nil
	}

	if err := r.metrics(report); err != nil {
		return err
	}

	if report.Comparison != nil {
		if err := r.comparison(report.Comparison); err != nil {
			return err
		}
	}

	for _, res := range report.Results {
		if res.Snapshot == nil {
			continue
		}
		if err := r.deepDive(res.Snapshot); err != nil {
			return err
		}
	}

	fmt.Fprintf(r.out, "\nRefreshed %d tickers (%d failed) in %s\n",
		len(report.Results), report.Failed, report.ScanTime.Round(time.Millisecond))
	if r.opts.Verbose {
		fmt.Fprintln(r.out, r.style(dimStyle, "run "+report.RunID))
	}
	return nil
}

func (r *Renderer) metrics(report *model.Report) error {
	table := tablewriter.NewTable(r.out,
		tablewriter.WithHeader([]string{"Symbol", "Name", "Price", "Change", "Change %", "Sentiment"}),
	)

	for _, res := range report.Results {
		snap := res.Snapshot
		if snap == nil {
			table.Append([]string{res.Symbol, r.style(redStyle, "unavailable"), format.NotAvailable, "-", "-", "-"})
			continue
		}

		name := truncate(snap.Name, nameWidth)

		price, change, pct := format.NotAvailable, "-", "-"
		if snap.PriceKnown {
			price = format.Price(snap.CurrentPrice)
			style := r.deltaStyle(snap.Delta)
			change = r.style(style, format.Price(snap.Delta))
			pct = r.style(style, format.Percent(snap.DeltaPercent))
		}

		table.Append([]string{
			snap.Symbol,
			name,
			price,
			change,
			pct,
			r.label(snap.Sentiment.Label, snap.Sentiment.Color),
		})
	}

	return table.Render()
}

func (r *Renderer) comparison(cmp *model.Comparison) error {
	fmt.Fprintf(r.out, "\n%s\n", r.style(titleStyle, fmt.Sprintf("--- Normalized Performance (%s) ---", cmp.Window)))

	if len(cmp.Series) == 0 {
		fmt.Fprintln(r.out, "No comparable price history.")
	} else {
		header := []string{"Date"}
		lookup := make([]map[int64]float64, len(cmp.Series))
		for i, s := range cmp.Series {
			header = append(header, s.Symbol)
			lookup[i] = make(map[int64]float64, len(s.Points))
			for _, p := range s.Points {
				lookup[i][p.Time.Unix()] = p.PercentChange
			}
		}

		table := tablewriter.NewTable(r.out, tablewriter.WithHeader(header))
		for _, date := range series.Dates(cmp) {
			row := []string{date.Format("2006-01-02")}
			for i := range cmp.Series {
				v, ok := lookup[i][date.Unix()]
				if !ok {
					row = append(row, "-")
					continue
				}
				row = append(row, r.style(r.deltaStyle(v), format.Percent(v)))
			}
			table.Append(row)
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	skipped := make([]string, 0, len(cmp.Skipped))
	for symbol := range cmp.Skipped {
		skipped = append(skipped, symbol)
	}
	sort.Strings(skipped)
	for _, symbol := range skipped {
		fmt.Fprintf(r.out, "  %s skipped: %s\n", symbol, cmp.Skipped[symbol])
	}
	return nil
}

func (r *Renderer) deepDive(snap *model.TickerSnapshot) error {
	title := fmt.Sprintf("[%s]", snap.Symbol)
	if snap.Name != "" {
		title += " " + snap.Name
	}
	fmt.Fprintf(r.out, "\n%s\n", r.style(titleStyle, title))

	price := format.NotAvailable
	if snap.PriceKnown {
		price = format.Price(snap.CurrentPrice)
	}
	fmt.Fprintf(r.out, "  Price: %s | Market Cap: %s | P/E: %s | 52W High: %s | Volume: %s\n",
		price,
		snap.MarketCapText,
		format.Ratio(snap.TrailingPE),
		yearHigh(snap.FiftyTwoWeekHigh),
		snap.VolumeText)

	s := snap.Sentiment
	fmt.Fprintf(r.out, "  Sentiment: %s %s %s (%d headlines)\n",
		r.label(s.Label, s.Color), Gauge(s.Gauge, gaugeWidth), format.Polarity(s.AveragePolarity), s.Count)

	r.priceChart(snap.History)

	if snap.SeriesDegenerate {
		fmt.Fprintln(r.out, r.style(dimStyle, "  Comparison unavailable: zero baseline price"))
	}

	if len(snap.DisplayNews) == 0 {
		fmt.Fprintln(r.out, r.style(dimStyle, "  No recent headlines."))
		return nil
	}

	table := tablewriter.NewTable(r.out,
		tablewriter.WithHeader([]string{"Headline", "Sentiment", "Score", "Publisher"}),
	)
	for _, item := range snap.DisplayNews {
		table.Append([]string{
			truncate(item.Title, headlineWidth),
			r.label(item.Label, item.Color),
			format.Polarity(item.Polarity),
			item.Publisher,
		})
	}
	return table.Render()
}

// priceChart prints the chart-window range and a sparkline of closes
func (r *Renderer) priceChart(history []model.PricePoint) {
	sum, ok := series.Summarize(history)
	if !ok {
		fmt.Fprintln(r.out, r.style(dimStyle, "  No price history."))
		return
	}

	fmt.Fprintf(r.out, "  Price Chart %s to %s (%d bars): %s\n",
		sum.Start.Format("2006-01-02"), sum.End.Format("2006-01-02"), sum.Bars,
		r.style(r.deltaStyle(sum.ChangePercent), Sparkline(series.Closes(history), sparklineWidth)))
	fmt.Fprintf(r.out, "  Open: %s | High: %s | Low: %s | Close: %s | Change: %s\n",
		format.Price(sum.Open),
		format.Price(sum.High),
		format.Price(sum.Low),
		format.Price(sum.Close),
		r.style(r.deltaStyle(sum.ChangePercent), format.Percent(sum.ChangePercent)))
}

// Sparkline draws values as block characters, sampled down to at most width
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}
	if len(values) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = values[i*len(values)/width]
		}
		sampled[width-1] = values[len(values)-1]
		values = sampled
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	top := len(sparkLevels) - 1
	out := make([]rune, len(values))
	for i, v := range values {
		level := top / 2
		if hi > lo {
			level = int((v-lo)/(hi-lo)*float64(top) + 0.5)
		}
		out[i] = sparkLevels[level]
	}
	return string(out)
}

// truncate shortens s to at most width terminal cells, never splitting a rune
func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "...")
}

func yearHigh(v float64) string {
	if v == 0 {
		return format.NotAvailable
	}
	return format.Price(v)
}

// Gauge draws the sentiment gauge for a value in [0,1]
func Gauge(value float64, width int) string {
	switch {
	case value < 0:
		value = 0
	case value > 1:
		value = 1
	}
	filled := int(value*float64(width) + 0.5)
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

func (r *Renderer) label(label model.Label, color model.Color) string {
	return r.style(colorStyle(color), string(label))
}

func (r *Renderer) deltaStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return greenStyle
	case v < 0:
		return redStyle
	default:
		return orangeStyle
	}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.opts.NoColor {
		return text
	}
	return s.Render(text)
}

func colorStyle(c model.Color) lipgloss.Style {
	switch c {
	case model.ColorGreen:
		return greenStyle
	case model.ColorRed:
		return redStyle
	default:
		return orangeStyle
	}
}
