package server

import (
	"math"
	"time"

	"StockCompass/internal/model"
)

// maColors is the chart palette; moving-average lines take colors in battery
// order, wrapping when there are more lines than colors.
var maColors = []string{"#FF6B6B", "#4ECDC4", "#FFE66D", "#1A535C", "#FF9F1C", "#C2F970"}

const (
	histUpColor   = "#26a69a"
	histDownColor = "#ef5350"
)

type candlePoint struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type linePoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
}

type lineDTO struct {
	Period int         `json:"period"`
	Color  string      `json:"color,omitempty"`
	Points []linePoint `json:"points"`
}

type kdDTO struct {
	K []linePoint `json:"k"`
	D []linePoint `json:"d"`
}

type histPoint struct {
	Time  string  `json:"time"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

type macdDTO struct {
	DIF       []linePoint `json:"dif"`
	DEA       []linePoint `json:"dea"`
	Histogram []histPoint `json:"histogram"`
}

type stockResponse struct {
	Symbol    string        `json:"symbol"`
	Candles   []candlePoint `json:"candles"`
	MA        []lineDTO     `json:"ma"`
	RSI       []lineDTO     `json:"rsi"`
	KD        kdDTO         `json:"kd"`
	BIAS      []lineDTO     `json:"bias"`
	MACD      macdDTO       `json:"macd"`
	UpdatedAt string        `json:"updated_at,omitempty"`
}

// linePoints flattens one indicator series, dropping warm-up points that
// carry no value. NaN never reaches the JSON encoder.
func linePoints(dates []time.Time, values []float64) []linePoint {
	pts := make([]linePoint, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		pts = append(pts, linePoint{Time: dates[i].Format(model.DateFormat), Value: v})
	}
	return pts
}

// histPoints is linePoints plus the sign-derived bar color.
func histPoints(dates []time.Time, values []float64) []histPoint {
	pts := make([]histPoint, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		color := histUpColor
		if v < 0 {
			color = histDownColor
		}
		pts = append(pts, histPoint{Time: dates[i].Format(model.DateFormat), Value: v, Color: color})
	}
	return pts
}

// newStockResponse flattens a bundle into the wire shape. This is the only
// place internal series become JSON.
func newStockResponse(b *model.Bundle) stockResponse {
	resp := stockResponse{
		Symbol:  b.Symbol,
		Candles: make([]candlePoint, 0, len(b.Dates)),
		MA:      make([]lineDTO, 0, len(b.MA)),
		RSI:     make([]lineDTO, 0, len(b.RSI)),
		BIAS:    make([]lineDTO, 0, len(b.BIAS)),
	}
	if !b.ComputedAt.IsZero() {
		resp.UpdatedAt = b.ComputedAt.UTC().Format(time.RFC3339)
	}

	for i, d := range b.Dates {
		resp.Candles = append(resp.Candles, candlePoint{
			Time:   d.Format(model.DateFormat),
			Open:   b.Opens[i],
			High:   b.Highs[i],
			Low:    b.Lows[i],
			Close:  b.Closes[i],
			Volume: b.Volumes[i],
		})
	}

	for i, line := range b.MA {
		resp.MA = append(resp.MA, lineDTO{
			Period: line.Period,
			Color:  maColors[i%len(maColors)],
			Points: linePoints(b.Dates, line.Values),
		})
	}
	for _, line := range b.RSI {
		resp.RSI = append(resp.RSI, lineDTO{Period: line.Period, Points: linePoints(b.Dates, line.Values)})
	}
	resp.KD = kdDTO{
		K: linePoints(b.Dates, b.KD.K),
		D: linePoints(b.Dates, b.KD.D),
	}
	for _, line := range b.BIAS {
		resp.BIAS = append(resp.BIAS, lineDTO{Period: line.Period, Points: linePoints(b.Dates, line.Values)})
	}
	resp.MACD = macdDTO{
		DIF:       linePoints(b.Dates, b.MACD.DIF),
		DEA:       linePoints(b.Dates, b.MACD.DEA),
		Histogram: histPoints(b.Dates, b.MACD.Histogram),
	}
	return resp
}
