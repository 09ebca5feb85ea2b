package extract_test

import (
	"math"
	"testing"

	"ocrapi/internal/extract"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestConfidenceThreeValues(t *testing.T) {
	var c extract.Confidence

	c.Observe(62.2)
	c.Observe(70.8)
	c.Observe(80)

	if got := c.Count(); got != 3 {
		t.Errorf("Count() = %d, want 3", got)
	}
	if got := c.Sum(); !almostEqual(got, 213) {
		t.Errorf("Sum() = %v, want 213", got)
	}
	avg, ok := c.Average()
	if !ok || !almostEqual(avg, 71) {
		t.Errorf("Average() = %v, %v, want 71, true", avg, ok)
	}
	min, ok := c.Minimum()
	if !ok || !almostEqual(min, 62.2) {
		t.Errorf("Minimum() = %v, %v, want 62.2, true", min, ok)
	}
}

func TestConfidenceUndefinedWhenEmpty(t *testing.T) {
	var c extract.Confidence

	if _, ok := c.Average(); ok {
		t.Error("Average() defined without observations")
	}
	if _, ok := c.Minimum(); ok {
		t.Error("Minimum() defined without observations")
	}
	if got := c.Count(); got != 0 {
		t.Errorf("Count() = %d, want 0", got)
	}
	if got := c.Sum(); got != 0 {
		t.Errorf("Sum() = %v, want 0", got)
	}
}

func TestConfidenceOrderIndependent(t *testing.T) {
	orders := [][]float64{
		{62.2, 70.8, 80, 12.5},
		{80, 12.5, 62.2, 70.8},
		{12.5, 80, 70.8, 62.2},
	}

	var first extract.Confidence
	for _, v := range orders[0] {
		first.Observe(v)
	}

	for _, order := range orders[1:] {
		var c extract.Confidence
		for _, v := range order {
			c.Observe(v)
		}

		if c.Count() != first.Count() {
			t.Errorf("Count differs across fold orders: %d vs %d", c.Count(), first.Count())
		}
		if !almostEqual(c.Sum(), first.Sum()) {
			t.Errorf("Sum differs across fold orders: %v vs %v", c.Sum(), first.Sum())
		}
		gotMin, _ := c.Minimum()
		wantMin, _ := first.Minimum()
		if !almostEqual(gotMin, wantMin) {
			t.Errorf("Minimum differs across fold orders: %v vs %v", gotMin, wantMin)
		}
	}
}

func TestConfidenceOutOfRangeAcceptedAsIs(t *testing.T) {
	var c extract.Confidence

	c.Observe(-5)
	c.Observe(150)

	min, ok := c.Minimum()
	if !ok || !almostEqual(min, -5) {
		t.Errorf("Minimum() = %v, %v, want -5, true", min, ok)
	}
	if got := c.Sum(); !almostEqual(got, 145) {
		t.Errorf("Sum() = %v, want 145", got)
	}
}
