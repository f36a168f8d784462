package calculator

import "errors"

// CalculateRSI computes the rolling simple-average RSI: at each index the
// positive and negative close-to-close deltas inside the trailing window of
// `period` bars are averaged and combined as 100 - 100/(1+avgGain/avgLoss).
// Indices before period-1 are NaN, as is any index whose window holds no
// losses (the division is undefined there). Plain window averaging, not
// Wilder's recursive smoothing.
func CalculateRSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := nanSlice(len(closes))
	if len(closes) < period {
		return out, nil
	}
	for i := period - 1; i < len(closes); i++ {
		lo := i - period + 1
		if lo < 1 {
			lo = 1 // the first bar has no predecessor, so no delta
		}
		var gain, loss float64
		n := 0
		for j := lo; j <= i; j++ {
			d := closes[j] - closes[j-1]
			if d > 0 {
				gain += d
			} else {
				loss -= d
			}
			n++
		}
		if n == 0 || loss == 0 {
			continue
		}
		rs := (gain / float64(n)) / (loss / float64(n))
		out[i] = 100.0 - 100.0/(1.0+rs)
	}
	return out, nil
}
