// cmd/backfill populates the stock database with deep history, fetching
// whole-year chunks per symbol from the configured data source. Run it once
// before first serving traffic, or again with an earlier -from year to extend
// history backwards; day-to-day catching up is the server's job.
//
// Usage:
//
//	go run ./cmd/backfill -from=2000
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"StockCompass/internal/cache"
	"StockCompass/internal/calculator"
	"StockCompass/internal/collector"
	"StockCompass/internal/config"
	"StockCompass/internal/metrics"
	"StockCompass/internal/model"
	"StockCompass/internal/store"
	"StockCompass/internal/updater"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	fromYear := flag.Int("from", 2000, "first year of history to fetch")
	flag.Parse()

	log.Println("[INFO] StockCompass backfill starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if *fromYear < 1900 || *fromYear > time.Now().Year() {
		log.Fatalf("[FATAL] -from year %d out of range", *fromYear)
	}

	// Init fetcher
	fetcher := collector.NewFinMindFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Token)
	log.Printf("[INFO] data source: %s, fetching %d-%d", fetcher.Name(), *fromYear, time.Now().Year())

	// Cancel on Ctrl+C so a long fetch sequence stops between chunks
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("[INFO] shutdown signal received, stopping...")
		cancel()
	}()

	summary, err := run(ctx, cfg, fetcher, prometheus.DefaultRegisterer, *fromYear)
	if err != nil {
		log.Fatalf("[FATAL] backfill: %v", err)
	}

	if summary.Failed > 0 {
		log.Printf("[WARN] backfill finished with %d/%d symbols failed", summary.Failed, len(summary.Results))
	}
	log.Printf("[INFO] StockCompass backfill finished: %d bars in %v",
		summary.BarsAdded, summary.FinishedAt.Sub(summary.StartedAt).Round(time.Second))
}

// run opens the store, wires the updater and executes one deep backfill.
// Split from main so tests can drive it with a mock fetcher.
func run(ctx context.Context, cfg *config.Config, fetcher collector.Fetcher, reg prometheus.Registerer, fromYear int) (*updater.RunSummary, error) {
	for _, p := range []string{cfg.Database.SQLitePath, cfg.Update.StateFile} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create dir %s: %w", dir, err)
			}
		}
	}
	st, err := store.NewSQLite(cfg.Database.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	battery, err := calculator.NewBattery(calculator.DefaultConfig())
	if err != nil {
		return nil, fmt.Errorf("init calculator: %w", err)
	}

	upd := updater.New(st, fetcher, cache.New(battery, st), metrics.New(reg), updater.Options{
		Universe: cfg.Stocks,
		Pacing:   cfg.Pacing(),
	})

	logHoldings("before", st, cfg.Stocks)
	summary := upd.Backfill(ctx, fromYear)
	logHoldings("after", st, cfg.Stocks)

	// Leave the summary where the server's status endpoint picks it up.
	if cfg.Update.StateFile != "" {
		if err := updater.SaveLastRun(cfg.Update.StateFile, summary); err != nil {
			log.Printf("[WARN] save run state: %v", err)
		}
	}
	return summary, nil
}

// logHoldings reports what the store holds for each universe symbol.
func logHoldings(label string, st store.Store, stocks []model.Stock) {
	log.Printf("[INFO] stored history (%s):", label)
	for _, s := range stocks {
		n, err := st.Count(s.Symbol)
		if err != nil {
			log.Printf("[WARN]   %s: %v", s.Symbol, err)
			continue
		}
		if n == 0 {
			log.Printf("[INFO]   %s (%s): empty", s.Symbol, s.Name)
			continue
		}
		latest, ok, err := st.LatestDate(s.Symbol)
		if err != nil || !ok {
			log.Printf("[INFO]   %s (%s): %d bars", s.Symbol, s.Name, n)
			continue
		}
		log.Printf("[INFO]   %s (%s): %d bars through %s", s.Symbol, s.Name, n, latest.Format(model.DateFormat))
	}
}
