package calculator

import (
	"math"
	"testing"
)

func TestCalculateBIAS_KnownValue(t *testing.T) {
	closes := []float64{10, 20}
	out, err := CalculateBIAS(closes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(out[0]) {
		t.Errorf("index 0: expected NaN, got %v", out[0])
	}
	// SMA = 15, bias = (20-15)/15*100
	want := (20.0 - 15.0) / 15.0 * 100.0
	if !almostEqual(out[1], want) {
		t.Errorf("index 1: expected %v, got %v", want, out[1])
	}
}

func TestCalculateBIAS_ZeroOnMA(t *testing.T) {
	// Constant closes sit exactly on their own average.
	closes := []float64{50, 50, 50, 50}
	out, err := CalculateBIAS(closes, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 2; i < len(out); i++ {
		if !almostEqual(out[i], 0.0) {
			t.Errorf("index %d: expected 0, got %v", i, out[i])
		}
	}
}

func TestCalculateBIAS_WarmUpFollowsSMA(t *testing.T) {
	closes := linearCloses(100, 10)
	out, err := CalculateBIAS(closes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 4; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("index %d: expected NaN during warm-up, got %v", i, out[i])
		}
	}
	if math.IsNaN(out[4]) {
		t.Error("index 4: expected a value once the SMA is defined")
	}
}

func TestCalculateBIAS_ZeroSMA(t *testing.T) {
	// An SMA of exactly zero would divide by zero; such indices carry no value.
	closes := []float64{-10, 10, -10, 10}
	out, err := CalculateBIAS(closes, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(out); i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("index %d: expected NaN when the SMA is zero, got %v", i, out[i])
		}
	}
}
