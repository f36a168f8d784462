package calculator

import (
	"math"
	"testing"
)

func TestCalculateRSI_WarmUp(t *testing.T) {
	closes := []float64{10, 11, 10, 12, 11, 13, 12, 14}
	out, err := CalculateRSI(closes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != len(closes) {
		t.Fatalf("expected %d values, got %d", len(closes), len(out))
	}
	for i := 0; i < 4; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("index %d: expected NaN during warm-up, got %v", i, out[i])
		}
	}
	if math.IsNaN(out[4]) {
		t.Error("index 4: expected a value after warm-up")
	}
}

func TestCalculateRSI_KnownValues(t *testing.T) {
	// period 3: index 2 sees deltas +1,-1 -> RSI 50; index 3 sees +1,-1,+2 -> RSI 75.
	closes := []float64{10, 11, 10, 12}
	out, err := CalculateRSI(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !almostEqual(out[2], 50.0) {
		t.Errorf("index 2: expected 50, got %v", out[2])
	}
	if !almostEqual(out[3], 75.0) {
		t.Errorf("index 3: expected 75, got %v", out[3])
	}
}

func TestCalculateRSI_NoLossesYieldsNoValue(t *testing.T) {
	// Strictly rising closes: every window divides by zero losses.
	closes := linearCloses(100, 10)
	out, err := CalculateRSI(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN on an all-gains window, got %v", i, v)
		}
	}
}

func TestCalculateRSI_AllLosses(t *testing.T) {
	closes := []float64{100, 99, 98, 97, 96}
	out, err := CalculateRSI(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 2; i < len(out); i++ {
		if !almostEqual(out[i], 0.0) {
			t.Errorf("index %d: expected RSI 0 on an all-losses window, got %v", i, out[i])
		}
	}
}

func TestCalculateRSI_ShortSeries(t *testing.T) {
	out, err := CalculateRSI([]float64{10, 11}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range out {
		if !math.IsNaN(v) {
			t.Errorf("index %d: expected NaN for series shorter than period, got %v", i, v)
		}
	}
}

func TestCalculateRSI_InvalidPeriod(t *testing.T) {
	if _, err := CalculateRSI([]float64{1, 2}, 0); err == nil {
		t.Error("expected error for period 0")
	}
}
