package collector

import (
	"time"

	"StockCompass/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	// FetchBars returns daily bars for stock within [start, end] inclusive,
	// ascending by date. An empty slice means the source had no rows for the
	// window, which is normal on holidays and weekends.
	FetchBars(stock model.Stock, start, end time.Time) ([]model.Bar, error)
	Name() string
}
