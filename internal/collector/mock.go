package collector

import (
	"sync"
	"time"

	"StockCompass/internal/model"
)

// FetchCall records one FetchBars invocation.
type FetchCall struct {
	Symbol string
	Start  time.Time
	End    time.Time
}

// MockFetcher returns controllable fixed data for development and testing,
// and records every call it receives.
type MockFetcher struct {
	mu    sync.Mutex
	Bars  map[string][]model.Bar
	Err   map[string]error
	calls []FetchCall
}

func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Bars: make(map[string][]model.Bar),
		Err:  make(map[string]error),
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBars(stock model.Stock, start, end time.Time) ([]model.Bar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, FetchCall{Symbol: stock.Symbol, Start: start, End: end})

	if err := m.Err[stock.Symbol]; err != nil {
		return nil, err
	}

	// Clip canned bars to the requested window, like a real source would.
	var out []model.Bar
	for _, b := range m.Bars[stock.Symbol] {
		if b.Date.Before(start) || b.Date.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockFetcher) Calls() []FetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]FetchCall(nil), m.calls...)
}

// GenerateBars produces a deterministic daily series for a symbol, one bar
// per calendar day starting at start.
func GenerateBars(symbol string, start time.Time, count int) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := 100 * (1 + float64(i)*0.001)
		bars[i] = model.Bar{
			Symbol: symbol,
			Date:   model.Day(start.AddDate(0, 0, i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
