package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"StockCompass/internal/cache"
	"StockCompass/internal/metrics"
	"StockCompass/internal/model"
	"StockCompass/internal/store"
	"StockCompass/internal/updater"
)

// Server exposes chart data and admin controls over HTTP.
type Server struct {
	cache   *cache.Cache
	store   store.Store
	updater *updater.Updater
	prom    *metrics.Metrics

	universe []model.Stock
	known    map[string]bool

	srv     *http.Server
	started time.Time
}

func New(addr string, c *cache.Cache, st store.Store, u *updater.Updater, prom *metrics.Metrics, universe []model.Stock) *Server {
	s := &Server{
		cache:    c,
		store:    st,
		updater:  u,
		prom:     prom,
		universe: universe,
		known:    make(map[string]bool, len(universe)),
		started:  time.Now(),
	}
	for _, stock := range universe {
		s.known[stock.Symbol] = true
	}
	s.srv = &http.Server{Addr: addr, Handler: s.routes()}
	return s
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stock/", s.timed("stock", s.handleStock))
	mux.HandleFunc("/api/stocks", s.timed("stocks", s.handleStocks))
	mux.HandleFunc("/api/admin/update", s.timed("admin_update", s.handleAdminUpdate))
	mux.HandleFunc("/api/admin/status", s.timed("admin_status", s.handleAdminStatus))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) timed(route string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h(w, r)
		s.prom.HTTPDur.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// handleStock serves the full bundle for one symbol: candles plus every
// indicator series, ready for charting.
func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	symbol := strings.TrimPrefix(r.URL.Path, "/api/stock/")
	if symbol == "" || strings.Contains(symbol, "/") {
		http.Error(w, `{"error":"symbol required"}`, http.StatusBadRequest)
		return
	}

	bundle, ok := s.cache.Get(symbol)
	if ok {
		s.prom.CacheHits.Inc()
	} else {
		// Symbols outside the universe never enter the cache; answer 404
		// unless the store happens to hold history for them.
		if !s.known[symbol] {
			count, err := s.store.Count(symbol)
			if err != nil {
				log.Printf("[ERROR] count %s: %v", symbol, err)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if count == 0 {
				http.Error(w, fmt.Sprintf(`{"error":"no data for %s"}`, symbol), http.StatusNotFound)
				return
			}
		}

		s.prom.CacheMisses.Inc()
		var err error
		bundle, err = s.cache.Load(symbol)
		if err != nil {
			log.Printf("[ERROR] load bundle %s: %v", symbol, err)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}
	}

	json.NewEncoder(w).Encode(newStockResponse(bundle))
}

// handleStocks lists the configured universe for the sidebar.
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.universe)
}

// handleAdminUpdate kicks off a pipeline run in the background and acks
// immediately with the job ID.
func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodPost {
		http.Error(w, `{"error":"POST required"}`, http.StatusMethodNotAllowed)
		return
	}

	jobID, started := s.updater.TriggerAsync(updater.TriggerAdmin)
	status := "scheduled"
	if !started {
		status = "already_running"
	}
	log.Printf("[INFO] admin update: %s (job %s)", status, jobID)

	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": status, "job_id": jobID})
}

// handleAdminStatus reports the in-flight run and the last finished summary.
func (s *Server) handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.updater.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"uptime":  time.Since(s.started).Round(time.Second).String(),
		"symbols": s.cache.Size(),
	})
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		log.Printf("[INFO] http server listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("[ERROR] http server: %v", err)
		}
	}()
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("[INFO] http server shutting down")
	return s.srv.Shutdown(ctx)
}
