package server

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"StockCompass/internal/model"
)

func testDates(n int) []time.Time {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

func TestNewStockResponse_DropsUndefinedPoints(t *testing.T) {
	nan := math.NaN()
	b := &model.Bundle{
		Symbol:  "2330",
		Dates:   testDates(3),
		Opens:   []float64{1, 2, 3},
		Highs:   []float64{1, 2, 3},
		Lows:    []float64{1, 2, 3},
		Closes:  []float64{1, 2, 3},
		Volumes: []int64{10, 20, 30},
		MA:      []model.Line{{Period: 2, Values: []float64{nan, 1.5, 2.5}}},
		MACD: model.MACDLines{
			DIF:       []float64{0, 0.5, 1},
			DEA:       []float64{0, 0.25, 0.5},
			Histogram: []float64{-0.5, nan, 1},
		},
	}

	resp := newStockResponse(b)

	if len(resp.MA[0].Points) != 2 {
		t.Fatalf("ma points = %d, want 2 (leading NaN dropped)", len(resp.MA[0].Points))
	}
	if resp.MA[0].Points[0].Time != "2024-01-03" {
		t.Errorf("first ma point at %s, want 2024-01-03", resp.MA[0].Points[0].Time)
	}

	hist := resp.MACD.Histogram
	if len(hist) != 2 {
		t.Fatalf("histogram points = %d, want 2 (interior NaN dropped)", len(hist))
	}
	if hist[0].Color != histDownColor {
		t.Errorf("negative bar color = %q, want %q", hist[0].Color, histDownColor)
	}
	if hist[1].Color != histUpColor {
		t.Errorf("positive bar color = %q, want %q", hist[1].Color, histUpColor)
	}
}

func TestNewStockResponse_EmptyBundleMarshalsAsArrays(t *testing.T) {
	resp := newStockResponse(&model.Bundle{Symbol: "2317"})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(data)

	// Chart clients iterate these; they must be [] rather than null.
	for _, want := range []string{`"candles":[]`, `"ma":[]`, `"rsi":[]`, `"k":[]`, `"dif":[]`} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %s: %s", want, body)
		}
	}
}
