package cache

import (
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"StockCompass/internal/calculator"
	"StockCompass/internal/model"
	"StockCompass/internal/store"
)

// Cache holds the most recent indicator bundle per symbol. Bundles are
// replaced wholesale, so a reader never sees candles from one pipeline run
// paired with indicators from another.
type Cache struct {
	battery *calculator.Battery
	store   store.Store

	mu      sync.RWMutex
	entries map[string]*model.Bundle

	group singleflight.Group
}

func New(battery *calculator.Battery, st store.Store) *Cache {
	return &Cache{
		battery: battery,
		store:   st,
		entries: make(map[string]*model.Bundle),
	}
}

// Get returns the cached bundle for a symbol, if present.
func (c *Cache) Get(symbol string) (*model.Bundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[symbol]
	return b, ok
}

// Put replaces the bundle for a symbol in one step.
func (c *Cache) Put(bundle *model.Bundle) {
	c.mu.Lock()
	c.entries[bundle.Symbol] = bundle
	c.mu.Unlock()
}

// Load returns the cached bundle, computing it from stored history on a
// miss. Concurrent misses for the same symbol share a single computation.
func (c *Cache) Load(symbol string) (*model.Bundle, error) {
	if b, ok := c.Get(symbol); ok {
		return b, nil
	}

	v, err, _ := c.group.Do(symbol, func() (interface{}, error) {
		if b, ok := c.Get(symbol); ok {
			return b, nil
		}
		bars, err := c.store.ReadAll(symbol)
		if err != nil {
			return nil, fmt.Errorf("read history: %w", err)
		}
		bundle, err := c.battery.Compute(symbol, bars)
		if err != nil {
			return nil, fmt.Errorf("compute bundle: %w", err)
		}
		c.Put(bundle)
		return bundle, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Bundle), nil
}

// Refresh recomputes the bundle for a symbol from stored history and swaps
// it in, regardless of what is already cached.
func (c *Cache) Refresh(symbol string) error {
	bars, err := c.store.ReadAll(symbol)
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}
	bundle, err := c.battery.Compute(symbol, bars)
	if err != nil {
		return fmt.Errorf("compute bundle: %w", err)
	}
	c.Put(bundle)
	return nil
}

// Warm computes bundles for every stored symbol. A failing symbol is logged
// and skipped so one bad history cannot block the rest. Returns the number
// of bundles cached.
func (c *Cache) Warm() int {
	symbols, err := c.store.Symbols()
	if err != nil {
		log.Printf("[WARN] cache warm: list symbols: %v", err)
		return 0
	}

	start := time.Now()
	warmed := 0
	for _, symbol := range symbols {
		if err := c.Refresh(symbol); err != nil {
			log.Printf("[WARN] cache warm: %s: %v", symbol, err)
			continue
		}
		warmed++
	}

	log.Printf("[INFO] cache warmed %d/%d symbols in %v",
		warmed, len(symbols), time.Since(start).Round(time.Millisecond))
	return warmed
}

// Size returns the number of cached bundles.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
