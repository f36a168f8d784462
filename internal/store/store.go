package store

import (
	"time"

	"StockCompass/internal/model"
)

// Store persists the per-symbol daily bar history. The update pipeline is the
// only writer; everything else reads.
type Store interface {
	// Upsert writes bars for a symbol, replacing any existing (symbol, date)
	// rows. Safe to call repeatedly with overlapping date ranges.
	Upsert(symbol string, bars []model.Bar) (int, error)
	// LatestDate returns the maximum stored date for a symbol; ok is false
	// when the symbol has no rows.
	LatestDate(symbol string) (date time.Time, ok bool, err error)
	// ReadAll returns the full history for a symbol, ascending by date. A
	// symbol with no rows yields an empty slice, not an error.
	ReadAll(symbol string) ([]model.Bar, error)
	// Symbols lists every symbol with at least one stored bar.
	Symbols() ([]string, error)
	// Count returns the number of stored bars for a symbol.
	Count(symbol string) (int, error)
	Close() error
}
