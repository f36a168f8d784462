package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockCompass/internal/model"
)

const userAgent = "Mozilla/5.0 (compatible; StockBot/1.0)"

// FinMindFetcher implements Fetcher using the FinMind v4 data API, which
// serves both Taiwan and US daily prices under different dataset names.
type FinMindFetcher struct {
	Client  *http.Client
	BaseURL string
	Token   string
}

// NewFinMindFetcher creates a new FinMind fetcher. The token is optional;
// without one FinMind applies its anonymous rate limit.
func NewFinMindFetcher(baseURL, token string) *FinMindFetcher {
	if baseURL == "" {
		baseURL = "https://api.finmindtrade.com/api/v4/data"
	}
	return &FinMindFetcher{
		Client:  &http.Client{Timeout: 30 * time.Second},
		BaseURL: baseURL,
		Token:   token,
	}
}

func (f *FinMindFetcher) Name() string { return "finmind" }

// finmindResponse is the envelope FinMind wraps every dataset in. Row keys
// differ per dataset, so rows stay untyped until mapping.
type finmindResponse struct {
	Msg    string                   `json:"msg"`
	Status int                      `json:"status"`
	Data   []map[string]interface{} `json:"data"`
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// field returns the first present key, so US rows parse whether the API
// sends "Close" or "close".
func field(row map[string]interface{}, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return toFloat(v)
		}
	}
	return 0, false
}

func (f *FinMindFetcher) FetchBars(stock model.Stock, start, end time.Time) ([]model.Bar, error) {
	params := url.Values{}
	params.Set("dataset", stock.Dataset)
	params.Set("data_id", stock.DataID)
	params.Set("start_date", start.Format(model.DateFormat))
	params.Set("end_date", end.Format(model.DateFormat))
	if f.Token != "" {
		params.Set("token", f.Token)
	}

	req, err := http.NewRequest("GET", f.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finmind fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finmind read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finmind: status %d, body: %s", resp.StatusCode, string(body))
	}

	var envelope finmindResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("finmind decode: %w", err)
	}
	if envelope.Msg != "success" {
		return nil, fmt.Errorf("finmind api error: %s", envelope.Msg)
	}

	bars := make([]model.Bar, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		bar, ok := f.mapRow(stock, row)
		if !ok {
			continue // skip malformed rows
		}
		bars = append(bars, bar)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// mapRow converts one FinMind row into a Bar. TaiwanStockPrice uses
// open/max/min/close/Trading_Volume, USStockPrice uses capitalized OHLCV.
func (f *FinMindFetcher) mapRow(stock model.Stock, row map[string]interface{}) (model.Bar, bool) {
	rawDate, ok := row["date"].(string)
	if !ok {
		return model.Bar{}, false
	}
	date, err := model.ParseDate(rawDate)
	if err != nil {
		return model.Bar{}, false
	}

	var open, high, low, closePrice, volume float64
	var okO, okH, okL, okC bool
	if stock.Dataset == "TaiwanStockPrice" {
		open, okO = field(row, "open")
		high, okH = field(row, "max", "high")
		low, okL = field(row, "min", "low")
		closePrice, okC = field(row, "close")
		volume, _ = field(row, "Trading_Volume")
	} else {
		open, okO = field(row, "Open", "open")
		high, okH = field(row, "High", "high")
		low, okL = field(row, "Low", "low")
		closePrice, okC = field(row, "Close", "close")
		volume, _ = field(row, "Volume", "Trading_Volume")
	}
	if !okO || !okH || !okL || !okC {
		return model.Bar{}, false
	}

	return model.Bar{
		Symbol: stock.Symbol,
		Date:   date,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: int64(volume),
	}, true
}
