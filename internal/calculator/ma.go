package calculator

import (
	"errors"
	"math"
)

// CalculateSMA computes the simple moving average of closes over the given
// period. The output is aligned with the input: indices before period-1 are
// NaN, and an input shorter than the period yields an all-NaN line.
func CalculateSMA(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := nanSlice(len(closes))
	if len(closes) < period {
		return out, nil
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= period {
			sum -= closes[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
