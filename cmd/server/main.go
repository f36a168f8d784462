package main

import (
	"context"
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
	"StockCompass/internal/notifier"
	"StockCompass/internal/scheduler"
	"StockCompass/internal/server"
	"StockCompass/internal/store"
	"StockCompass/internal/updater"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockCompass starting...")

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

	// Init store
	for _, p := range []string{cfg.Database.SQLitePath, cfg.Update.StateFile} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("[FATAL] create dir %s: %v", dir, err)
			}
		}
	}
	st, err := store.NewSQLite(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	if n, err := store.LoadSeed(st, cfg.Database.SeedFile); err != nil {
		log.Printf("[WARN] load seed: %v", err)
	} else if n > 0 {
		log.Printf("[INFO] seeded %d bars from %s", n, cfg.Database.SeedFile)
	}

	// Init indicator battery and warm the bundle cache from stored history
	battery, err := calculator.NewBattery(calculator.DefaultConfig())
	if err != nil {
		log.Fatalf("[FATAL] init calculator: %v", err)
	}
	bundles := cache.New(battery, st)
	bundles.Warm()

	// Init fetcher
	fetcher := collector.NewFinMindFetcher(cfg.DataSource.BaseURL, cfg.DataSource.Token)
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init metrics
	prom := metrics.New(prometheus.DefaultRegisterer)

	// Init Telegram notifier
	var tn notifier.Notifier = notifier.Noop{}
	var tg *notifier.Telegram
	if cfg.TelegramEnabled() {
		tg = notifier.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		tn = tg
		log.Println("[INFO] telegram run reports enabled")
	}

	// Init updater
	backfillStart, err := cfg.BackfillStartDate()
	if err != nil {
		log.Fatalf("[FATAL] parse backfill start: %v", err)
	}
	upd := updater.New(st, fetcher, bundles, prom, updater.Options{
		Universe:      cfg.Stocks,
		BackfillStart: backfillStart,
		Pacing:        cfg.Pacing(),
		StatePath:     cfg.Update.StateFile,
		OnComplete: func(summary *updater.RunSummary) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := tn.SendWithRetry(ctx, notifier.FormatUpdateReport(summary), 3); err != nil {
				log.Printf("[WARN] send update report: %v", err)
			}
		},
	})
	if last, err := updater.LoadLastRun(cfg.Update.StateFile); err != nil {
		log.Printf("[WARN] load run state: %v", err)
	} else {
		upd.RestoreLastRun(last)
	}

	// Init scheduler
	sched := scheduler.New(upd)
	if err := sched.RegisterUpdate(cfg.Schedule.UpdateCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Context for stopping the Telegram poller
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start Telegram polling
	if tg != nil {
		go tg.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] telegram polling started")
	}

	// Optional: catch up immediately on start
	if cfg.Update.RunOnStart {
		jobID, _ := upd.TriggerAsync(updater.TriggerStartup)
		log.Printf("[INFO] startup update triggered: %s", jobID)
	}

	// Init HTTP server
	srv := server.New(cfg.Server.Addr, bundles, st, upd, prom, cfg.Stocks)
	srv.Start()

	log.Println("[INFO] StockCompass is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] http shutdown: %v", err)
	}
	log.Println("[INFO] StockCompass stopped")
}
