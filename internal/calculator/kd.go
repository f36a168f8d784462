package calculator

import (
	"errors"
	"math"
)

// CalculateRSV computes the raw stochastic value over a trailing window:
// 100*(close - lowestLow)/(highestHigh - lowestLow). Indices before period-1
// are NaN, as is any index whose window is flat (highest == lowest).
func CalculateRSV(highs, lows, closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(highs) != len(closes) || len(lows) != len(closes) {
		return nil, errors.New("high/low/close lengths differ")
	}
	out := nanSlice(len(closes))
	for i := period - 1; i < len(closes); i++ {
		hh := math.Inf(-1)
		ll := math.Inf(1)
		for j := i - period + 1; j <= i; j++ {
			if highs[j] > hh {
				hh = highs[j]
			}
			if lows[j] < ll {
				ll = lows[j]
			}
		}
		if hh == ll {
			continue
		}
		out[i] = 100.0 * (closes[i] - ll) / (hh - ll)
	}
	return out, nil
}

// CalculateKD derives the stochastic K and D lines: K is the span-kSpan EMA of
// the raw RSV and D the span-dSpan EMA of K. Both inherit the RSV warm-up gap.
func CalculateKD(highs, lows, closes []float64, rsvPeriod, kSpan, dSpan int) (k, d []float64, err error) {
	rsv, err := CalculateRSV(highs, lows, closes, rsvPeriod)
	if err != nil {
		return nil, nil, err
	}
	k, err = CalculateEMA(rsv, kSpan)
	if err != nil {
		return nil, nil, err
	}
	d, err = CalculateEMA(k, dSpan)
	if err != nil {
		return nil, nil, err
	}
	return k, d, nil
}
