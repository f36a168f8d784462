package calculator

import (
	"math"
	"testing"
)

func TestCalculateMACD_FirstValuesAreZero(t *testing.T) {
	// Both EMAs seed with the first close, so DIF, DEA and histogram all open at 0.
	closes := []float64{100, 104, 99, 107, 103}
	dif, dea, hist, err := CalculateMACD(closes, 45, 117, 17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(dif[0], 0) || !almostEqual(dea[0], 0) || !almostEqual(hist[0], 0) {
		t.Errorf("expected 0/0/0 at index 0, got %v/%v/%v", dif[0], dea[0], hist[0])
	}
}

func TestCalculateMACD_HistogramRelation(t *testing.T) {
	closes := []float64{100, 102, 101, 105, 103, 108, 104, 110, 107, 112}
	dif, dea, hist, err := CalculateMACD(closes, 3, 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(dif) != len(closes) || len(dea) != len(closes) || len(hist) != len(closes) {
		t.Fatalf("expected aligned outputs of length %d", len(closes))
	}
	for i := range hist {
		want := (dif[i] - dea[i]) * 2.0
		if !almostEqual(hist[i], want) {
			t.Errorf("index %d: histogram %v != 2*(dif-dea) %v", i, hist[i], want)
		}
	}
}

func TestCalculateMACD_ConstantSeries(t *testing.T) {
	closes := []float64{50, 50, 50, 50, 50, 50}
	dif, dea, hist, err := CalculateMACD(closes, 3, 5, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range closes {
		if !almostEqual(dif[i], 0) || !almostEqual(dea[i], 0) || !almostEqual(hist[i], 0) {
			t.Errorf("index %d: expected flat zero lines, got %v/%v/%v", i, dif[i], dea[i], hist[i])
		}
	}
}

func TestCalculateMACD_NoWarmUpGap(t *testing.T) {
	closes := []float64{10, 11, 12}
	dif, dea, hist, err := CalculateMACD(closes, 45, 117, 17)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range closes {
		if math.IsNaN(dif[i]) || math.IsNaN(dea[i]) || math.IsNaN(hist[i]) {
			t.Errorf("index %d: EMA-based lines must be defined from the first bar", i)
		}
	}
}

func TestCalculateMACD_InvalidPeriod(t *testing.T) {
	if _, _, _, err := CalculateMACD([]float64{1, 2}, 0, 5, 2); err == nil {
		t.Error("expected error for zero fast period")
	}
}
