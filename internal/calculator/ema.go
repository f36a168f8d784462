package calculator

import (
	"errors"
	"math"
)

// CalculateEMA computes an exponential moving average using the span
// convention: alpha = 2/(span+1), recursive form y = alpha*x + (1-alpha)*y,
// seeded with the first input value. NaN inputs are skipped: the output stays
// NaN until the first real input, then carries the last smoothed value across
// any interior NaN.
func CalculateEMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out := make([]float64, len(values))
	ema := math.NaN()
	seeded := false
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = ema
			continue
		}
		if !seeded {
			ema = v
			seeded = true
		} else {
			ema = alpha*v + (1-alpha)*ema
		}
		out[i] = ema
	}
	return out, nil
}
