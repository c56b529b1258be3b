package util

import (
	"math"
	"testing"
)

func TestTrailingMedianOdd(t *testing.T) {
	xs := []float64{1, 9, 3, 7, 5}
	got, ok := TrailingMedian(xs, 5)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 5 {
		t.Fatalf("median = %v, want 5", got)
	}
}

func TestTrailingMedianWindow(t *testing.T) {
	// only the last 3 observations count
	xs := []float64{100, 100, 2, 4, 6}
	got, ok := TrailingMedian(xs, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 4 {
		t.Fatalf("median = %v, want 4", got)
	}
}

func TestTrailingMedianSkipsNaN(t *testing.T) {
	nan := math.NaN()
	xs := []float64{2, nan, 4, nan, 6}
	got, ok := TrailingMedian(xs, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got != 4 {
		t.Fatalf("median = %v, want 4", got)
	}
}

func TestTrailingMedianEmpty(t *testing.T) {
	if _, ok := TrailingMedian(nil, 252); ok {
		t.Fatalf("expected not ok for empty series")
	}
	if _, ok := TrailingMedian([]float64{math.NaN()}, 252); ok {
		t.Fatalf("expected not ok for all-NaN series")
	}
}

func TestLastValid(t *testing.T) {
	xs := []float64{1, 2, math.NaN()}
	got, ok := LastValid(xs)
	if !ok || got != 2 {
		t.Fatalf("LastValid = %v,%v want 2,true", got, ok)
	}
}

func TestPctChangeOverDays(t *testing.T) {
	xs := []float64{100, 105, 110}
	got, ok := PctChangeOverDays(xs, 3)
	if !ok {
		t.Fatalf("expected ok")
	}
	if math.Abs(got-0.10) > 1e-12 {
		t.Fatalf("pct change = %v, want 0.10", got)
	}
}

func TestPctChangeZeroStart(t *testing.T) {
	if _, ok := PctChangeOverDays([]float64{0, 5}, 2); ok {
		t.Fatalf("expected not ok for zero start")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want float64 }{
		{0.5, 0, 1, 0.5},
		{-2, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%v,%v,%v) = %v, want %v", c.v, c.lo, c.hi, got, c.want)
		}
	}
}
