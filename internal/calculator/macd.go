package calculator

// CalculateMACD computes DIF (fast EMA of close minus slow EMA of close),
// DEA (the signal-span EMA of DIF) and the histogram (DIF-DEA)*2. All three
// lines are defined from the first bar onward because every term is an EMA.
func CalculateMACD(closes []float64, fast, slow, signal int) (dif, dea, hist []float64, err error) {
	fastEMA, err := CalculateEMA(closes, fast)
	if err != nil {
		return nil, nil, nil, err
	}
	slowEMA, err := CalculateEMA(closes, slow)
	if err != nil {
		return nil, nil, nil, err
	}
	dif = make([]float64, len(closes))
	for i := range dif {
		dif[i] = fastEMA[i] - slowEMA[i]
	}
	dea, err = CalculateEMA(dif, signal)
	if err != nil {
		return nil, nil, nil, err
	}
	hist = make([]float64, len(closes))
	for i := range hist {
		hist[i] = (dif[i] - dea[i]) * 2.0
	}
	return dif, dea, hist, nil
}
