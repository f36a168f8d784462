package updater

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"StockCompass/internal/cache"
	"StockCompass/internal/collector"
	"StockCompass/internal/metrics"
	"StockCompass/internal/model"
	"StockCompass/internal/store"
)

// DefaultBackfillStart is the first trading day requested for a symbol with
// no stored history.
const DefaultBackfillStart = "2020-01-01"

// Trigger labels describing what started a run.
const (
	TriggerCron    = "cron"
	TriggerAdmin   = "admin"
	TriggerStartup = "startup"
)

// Outcome classifies how one symbol fared in a run.
type Outcome string

const (
	OutcomeUpdated Outcome = "updated" // new bars stored, bundle refreshed
	OutcomeCurrent Outcome = "current" // history already covers today, no fetch made
	OutcomeEmpty   Outcome = "empty"   // source had no rows for the window
	OutcomeFailed  Outcome = "failed"
)

// SymbolResult is the per-symbol record of one run.
type SymbolResult struct {
	Symbol     string  `json:"symbol"`
	Outcome    Outcome `json:"outcome"`
	BarsAdded  int     `json:"bars_added"`
	WindowFrom string  `json:"window_from,omitempty"`
	WindowTo   string  `json:"window_to,omitempty"`
	Error      string  `json:"error,omitempty"`
}

// RunSummary describes one full pipeline run.
type RunSummary struct {
	JobID      string         `json:"job_id"`
	Trigger    string         `json:"trigger"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	Results    []SymbolResult `json:"results"`
	BarsAdded  int            `json:"bars_added"`
	Failed     int            `json:"failed"`
}

// Status is the externally visible run state.
type Status struct {
	Running    bool        `json:"running"`
	RunningJob string      `json:"running_job,omitempty"`
	LastRun    *RunSummary `json:"last_run,omitempty"`
}

// Options carries the non-collaborator knobs for an Updater.
type Options struct {
	Universe      []model.Stock
	BackfillStart time.Time
	Pacing        time.Duration
	StatePath     string
	// OnComplete runs after every async run, with the finished summary.
	OnComplete func(*RunSummary)
}

// Updater walks the configured universe, brings each symbol's stored history
// up to today and swaps the refreshed indicator bundle into the cache. Every
// symbol is independent; one failure never blocks the rest.
type Updater struct {
	store   store.Store
	fetcher collector.Fetcher
	cache   *cache.Cache
	prom    *metrics.Metrics
	opts    Options

	mu         sync.Mutex
	running    bool
	runningJob string
	lastRun    *RunSummary
}

func New(st store.Store, f collector.Fetcher, c *cache.Cache, prom *metrics.Metrics, opts Options) *Updater {
	if opts.BackfillStart.IsZero() {
		start, _ := model.ParseDate(DefaultBackfillStart)
		opts.BackfillStart = start
	}
	return &Updater{store: st, fetcher: f, cache: c, prom: prom, opts: opts}
}

// Run executes one pipeline pass over the universe and returns its summary.
// It does not serialize against other runs; use TriggerAsync for that.
func (u *Updater) Run(ctx context.Context, trigger string) *RunSummary {
	return u.run(ctx, uuid.NewString(), trigger)
}

func (u *Updater) run(ctx context.Context, jobID, trigger string) *RunSummary {
	summary := &RunSummary{JobID: jobID, Trigger: trigger, StartedAt: time.Now()}
	u.prom.PipelineRuns.Inc()
	log.Printf("[INFO] update run %s started (%s), %d symbols", jobID, trigger, len(u.opts.Universe))

	today := model.Day(time.Now())
	for i, stock := range u.opts.Universe {
		if ctx.Err() != nil {
			log.Printf("[WARN] update run %s canceled after %d/%d symbols", jobID, i, len(u.opts.Universe))
			break
		}

		res := u.updateSymbol(stock, today)
		summary.Results = append(summary.Results, res)
		summary.BarsAdded += res.BarsAdded
		if res.Outcome == OutcomeFailed {
			summary.Failed++
		}

		// Pace between upstream calls. A symbol that was already current
		// made no call, so it costs no delay.
		if u.opts.Pacing > 0 && i < len(u.opts.Universe)-1 && res.Outcome != OutcomeCurrent {
			select {
			case <-ctx.Done():
			case <-time.After(u.opts.Pacing):
			}
		}
	}

	summary.FinishedAt = time.Now()
	// A run where every symbol failed is not a success.
	if summary.Failed < len(summary.Results) {
		u.prom.PipelineLastSuccess.SetToCurrentTime()
	}
	log.Printf("[INFO] update run %s finished: %d bars, %d/%d symbols failed, took %v",
		jobID, summary.BarsAdded, summary.Failed, len(summary.Results),
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
	return summary
}

func (u *Updater) updateSymbol(stock model.Stock, today time.Time) SymbolResult {
	res := SymbolResult{Symbol: stock.Symbol}

	start := u.opts.BackfillStart
	latest, ok, err := u.store.LatestDate(stock.Symbol)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		log.Printf("[ERROR] update %s: latest date: %v", stock.Symbol, err)
		return res
	}
	if ok {
		start = latest.AddDate(0, 0, 1)
	}

	if start.After(today) {
		res.Outcome = OutcomeCurrent
		return res
	}
	res.WindowFrom = start.Format(model.DateFormat)
	res.WindowTo = today.Format(model.DateFormat)

	u.prom.FetchRequests.Inc()
	bars, err := u.fetcher.FetchBars(stock, start, today)
	if err != nil {
		u.prom.FetchErrors.Inc()
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		log.Printf("[ERROR] update %s: fetch [%s, %s]: %v", stock.Symbol, res.WindowFrom, res.WindowTo, err)
		return res
	}
	if len(bars) == 0 {
		res.Outcome = OutcomeEmpty
		return res
	}

	n, err := u.store.Upsert(stock.Symbol, bars)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		log.Printf("[ERROR] update %s: upsert: %v", stock.Symbol, err)
		return res
	}
	res.BarsAdded = n
	u.prom.BarsUpserted.Add(float64(n))

	computeStart := time.Now()
	if err := u.cache.Refresh(stock.Symbol); err != nil {
		// History is stored; readers keep serving the previous bundle.
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		log.Printf("[ERROR] update %s: refresh bundle: %v", stock.Symbol, err)
		return res
	}
	u.prom.ComputeDur.Observe(time.Since(computeStart).Seconds())

	res.Outcome = OutcomeUpdated
	log.Printf("[INFO] update %s: %d bars in [%s, %s], bundle refreshed",
		stock.Symbol, n, res.WindowFrom, res.WindowTo)
	return res
}

// TriggerAsync starts a run in the background unless one is already in
// flight. It returns the job ID and whether a new run started; when a run is
// active it returns the active job's ID with started=false.
func (u *Updater) TriggerAsync(trigger string) (string, bool) {
	u.mu.Lock()
	if u.running {
		id := u.runningJob
		u.mu.Unlock()
		return id, false
	}
	jobID := uuid.NewString()
	u.running = true
	u.runningJob = jobID
	u.mu.Unlock()

	go func() {
		summary := u.run(context.Background(), jobID, trigger)

		u.mu.Lock()
		u.running = false
		u.runningJob = ""
		u.lastRun = summary
		u.mu.Unlock()

		if u.opts.StatePath != "" {
			if err := SaveLastRun(u.opts.StatePath, summary); err != nil {
				log.Printf("[WARN] save run state: %v", err)
			}
		}
		if u.opts.OnComplete != nil {
			u.opts.OnComplete(summary)
		}
	}()
	return jobID, true
}

// Status reports whether a run is active and the last finished summary.
func (u *Updater) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return Status{Running: u.running, RunningJob: u.runningJob, LastRun: u.lastRun}
}

// RestoreLastRun seeds the last-run summary, typically from the state file,
// so status survives restarts.
func (u *Updater) RestoreLastRun(summary *RunSummary) {
	if summary == nil {
		return
	}
	u.mu.Lock()
	u.lastRun = summary
	u.mu.Unlock()
}

// Backfill fetches history in whole-year chunks from startYear through the
// current year for every universe symbol, then refreshes the bundles. Meant
// for first-time database population; day-to-day catching up happens in Run.
func (u *Updater) Backfill(ctx context.Context, startYear int) *RunSummary {
	summary := &RunSummary{JobID: uuid.NewString(), Trigger: "backfill", StartedAt: time.Now()}
	today := model.Day(time.Now())
	currentYear := today.Year()
	log.Printf("[INFO] backfill %s started: years %d-%d, %d symbols",
		summary.JobID, startYear, currentYear, len(u.opts.Universe))

	for i, stock := range u.opts.Universe {
		if ctx.Err() != nil {
			log.Printf("[WARN] backfill %s canceled after %d/%d symbols", summary.JobID, i, len(u.opts.Universe))
			break
		}

		res := SymbolResult{Symbol: stock.Symbol}
		var lastErr error

		for year := startYear; year <= currentYear; year++ {
			if ctx.Err() != nil {
				break
			}
			start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
			end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
			if end.After(today) {
				end = today
			}

			u.prom.FetchRequests.Inc()
			bars, err := u.fetcher.FetchBars(stock, start, end)
			if err != nil {
				u.prom.FetchErrors.Inc()
				lastErr = err
				log.Printf("[WARN] backfill %s %d: %v", stock.Symbol, year, err)
			} else if len(bars) > 0 {
				n, err := u.store.Upsert(stock.Symbol, bars)
				if err != nil {
					lastErr = err
					log.Printf("[ERROR] backfill %s %d: upsert: %v", stock.Symbol, year, err)
				} else {
					res.BarsAdded += n
					u.prom.BarsUpserted.Add(float64(n))
				}
			}

			if u.opts.Pacing > 0 && year < currentYear {
				select {
				case <-ctx.Done():
				case <-time.After(u.opts.Pacing):
				}
			}
		}

		switch {
		case res.BarsAdded > 0:
			res.Outcome = OutcomeUpdated
			if err := u.cache.Refresh(stock.Symbol); err != nil {
				log.Printf("[WARN] backfill %s: refresh bundle: %v", stock.Symbol, err)
			}
		case lastErr != nil:
			res.Outcome = OutcomeFailed
			res.Error = lastErr.Error()
		default:
			res.Outcome = OutcomeEmpty
		}
		summary.Results = append(summary.Results, res)
		summary.BarsAdded += res.BarsAdded
		if res.Outcome == OutcomeFailed {
			summary.Failed++
		}
		log.Printf("[INFO] backfill %s: %d bars total", stock.Symbol, res.BarsAdded)
	}

	summary.FinishedAt = time.Now()
	log.Printf("[INFO] backfill %s finished: %d bars", summary.JobID, summary.BarsAdded)
	return summary
}
