package calculator

import "math"

// CalculateBIAS computes the percentage deviation of close from its own
// period-SMA: (close - SMA)/SMA * 100. NaN wherever the SMA is NaN or zero.
func CalculateBIAS(closes []float64, period int) ([]float64, error) {
	sma, err := CalculateSMA(closes, period)
	if err != nil {
		return nil, err
	}
	out := nanSlice(len(closes))
	for i, m := range sma {
		if math.IsNaN(m) || m == 0 {
			continue
		}
		out[i] = (closes[i] - m) / m * 100.0
	}
	return out, nil
}
