package calculator

import (
	"fmt"
	"time"

	"StockCompass/internal/model"
)

// Config fixes the indicator battery periods. The set is static per
// deployment; request handling never varies it.
type Config struct {
	MAPeriods   []int
	RSIPeriods  []int
	RSVPeriod   int
	KSpan       int
	DSpan       int
	BIASPeriods []int
	MACDFast    int
	MACDSlow    int
	MACDSignal  int
}

// DefaultConfig returns the production battery: MA 17/45/117/189/305/494/799/1292,
// RSI 17/44, KD 17-3-3, BIAS 117/17/45, MACD 45-117-17.
func DefaultConfig() Config {
	return Config{
		MAPeriods:   []int{17, 45, 117, 189, 305, 494, 799, 1292},
		RSIPeriods:  []int{17, 44},
		RSVPeriod:   17,
		KSpan:       3,
		DSpan:       3,
		BIASPeriods: []int{117, 17, 45},
		MACDFast:    45,
		MACDSlow:    117,
		MACDSignal:  17,
	}
}

// Battery computes the full indicator set for one series. Pure and stateless:
// the same bars always produce the same bundle.
type Battery struct {
	cfg Config
}

// NewBattery validates the period configuration and returns a Battery.
func NewBattery(cfg Config) (*Battery, error) {
	for _, p := range cfg.MAPeriods {
		if p <= 0 {
			return nil, fmt.Errorf("ma period must be positive, got %d", p)
		}
	}
	for _, p := range cfg.RSIPeriods {
		if p <= 0 {
			return nil, fmt.Errorf("rsi period must be positive, got %d", p)
		}
	}
	for _, p := range cfg.BIASPeriods {
		if p <= 0 {
			return nil, fmt.Errorf("bias period must be positive, got %d", p)
		}
	}
	if cfg.RSVPeriod <= 0 || cfg.KSpan <= 0 || cfg.DSpan <= 0 {
		return nil, fmt.Errorf("kd periods must be positive, got %d/%d/%d", cfg.RSVPeriod, cfg.KSpan, cfg.DSpan)
	}
	if cfg.MACDFast <= 0 || cfg.MACDSlow <= 0 || cfg.MACDSignal <= 0 {
		return nil, fmt.Errorf("macd periods must be positive, got %d/%d/%d", cfg.MACDFast, cfg.MACDSlow, cfg.MACDSignal)
	}
	return &Battery{cfg: cfg}, nil
}

// Compute builds a Bundle from ascending daily bars. The input slice is not
// retained and the returned bundle is safe to publish as-is.
func (b *Battery) Compute(symbol string, bars []model.Bar) (*model.Bundle, error) {
	bundle := &model.Bundle{
		Symbol:     symbol,
		Dates:      make([]time.Time, len(bars)),
		Opens:      make([]float64, len(bars)),
		Highs:      make([]float64, len(bars)),
		Lows:       make([]float64, len(bars)),
		Closes:     make([]float64, len(bars)),
		Volumes:    make([]int64, len(bars)),
		ComputedAt: time.Now(),
	}
	for i, bar := range bars {
		bundle.Dates[i] = bar.Date
		bundle.Opens[i] = bar.Open
		bundle.Highs[i] = bar.High
		bundle.Lows[i] = bar.Low
		bundle.Closes[i] = bar.Close
		bundle.Volumes[i] = bar.Volume
	}

	closes := bundle.Closes
	for _, p := range b.cfg.MAPeriods {
		line, err := CalculateSMA(closes, p)
		if err != nil {
			return nil, fmt.Errorf("ma(%d): %w", p, err)
		}
		bundle.MA = append(bundle.MA, model.Line{Period: p, Values: line})
	}
	for _, p := range b.cfg.RSIPeriods {
		line, err := CalculateRSI(closes, p)
		if err != nil {
			return nil, fmt.Errorf("rsi(%d): %w", p, err)
		}
		bundle.RSI = append(bundle.RSI, model.Line{Period: p, Values: line})
	}
	k, d, err := CalculateKD(bundle.Highs, bundle.Lows, closes, b.cfg.RSVPeriod, b.cfg.KSpan, b.cfg.DSpan)
	if err != nil {
		return nil, fmt.Errorf("kd: %w", err)
	}
	bundle.KD = model.KDLines{K: k, D: d}
	for _, p := range b.cfg.BIASPeriods {
		line, err := CalculateBIAS(closes, p)
		if err != nil {
			return nil, fmt.Errorf("bias(%d): %w", p, err)
		}
		bundle.BIAS = append(bundle.BIAS, model.Line{Period: p, Values: line})
	}
	dif, dea, hist, err := CalculateMACD(closes, b.cfg.MACDFast, b.cfg.MACDSlow, b.cfg.MACDSignal)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	bundle.MACD = model.MACDLines{DIF: dif, DEA: dea, Histogram: hist}

	return bundle, nil
}
