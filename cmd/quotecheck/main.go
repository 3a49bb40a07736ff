package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"tickerscope/internal/config"
	"tickerscope/internal/provider"
	"tickerscope/pkg/model"
)

// quotecheck hits each upstream endpoint for one symbol and prints what came
// back, for diagnosing field-name drift in the unofficial Yahoo API.
func main() {
	symbol := "TSLA"
	if len(os.Args) > 1 {
		symbol = os.Args[1]
	}

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal(err)
	}

	yahoo := provider.NewYahooProvider(provider.YahooOptions{
		BaseURL:   cfg.Provider.YahooBaseURL,
		RateLimit: cfg.Provider.RateLimit,
		Timeout:   cfg.Provider.Timeout,
		UserAgent: cfg.Provider.UserAgent,
		Proxy:     cfg.Provider.Proxy,
	})
	rss := provider.NewRSSNewsProvider(cfg.Provider.RSSBaseURL, cfg.Provider.UserAgent, cfg.Provider.Timeout)
	ctx := context.Background()

	fmt.Printf("=== Upstream check: %s ===\n", symbol)

	fmt.Println("\n[1] Yahoo quote")
	start := time.Now()
	quote, err := yahoo.GetQuote(ctx, symbol)
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
	} else {
		keys := make([]string, 0, len(quote))
		for k := range quote {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fmt.Printf("  %d fields in %v\n", len(keys), time.Since(start))
		for _, k := range []string{"currentPrice", "regularMarketPrice", "previousClose", "regularMarketPreviousClose", "marketCap", "trailingPE", "fiftyTwoWeekHigh", "volume", "regularMarketVolume"} {
			if v, ok := quote.Float(k); ok {
				fmt.Printf("  %-28s %v\n", k, v)
			} else {
				fmt.Printf("  %-28s (missing)\n", k)
			}
		}
	}

	fmt.Println("\n[2] Yahoo news")
	printNews(yahoo.GetNews(ctx, symbol, 5))

	fmt.Println("\n[3] RSS headlines")
	printNews(rss.GetNews(ctx, symbol, 5))

	fmt.Println("\n[4] Yahoo history (1mo)")
	start = time.Now()
	points, err := yahoo.GetHistory(ctx, symbol, model.Window1M)
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
	} else {
		fmt.Printf("  %d bars in %v\n", len(points), time.Since(start))
		if len(points) > 0 {
			first, last := points[0], points[len(points)-1]
			fmt.Printf("  first: %s close=%.2f\n", first.Time.Format("2006-01-02"), first.Close)
			fmt.Printf("  last:  %s close=%.2f\n", last.Time.Format("2006-01-02"), last.Close)
		}
	}

	if len(os.Args) > 2 && os.Args[2] == "--raw" && quote != nil {
		fmt.Println("\n[5] Raw quote")
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(quote)
	}

	fmt.Println("\n=== Done ===")
}

func printNews(items []model.NewsItem, err error) {
	if err != nil {
		fmt.Printf("  ERROR: %v\n", err)
		return
	}
	fmt.Printf("  %d headlines\n", len(items))
	for i, n := range items {
		fmt.Printf("  %d. %s [%s]\n", i+1, n.Title, n.Publisher)
	}
}
