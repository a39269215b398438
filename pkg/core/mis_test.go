package core

import (
	"math"
	"testing"
)

func TestPowerHeuristic_EqualPDFs(t *testing.T) {
	w := PowerHeuristic(1, 0.5, 1, 0.5)
	if math.Abs(w-0.5) > 1e-12 {
		t.Errorf("equal pdfs should weight 0.5, got %f", w)
	}
}

func TestPowerHeuristic_WeightsSumToOne(t *testing.T) {
	pairs := [][2]float64{
		{0.1, 0.9},
		{1, 1},
		{5, 0.001},
		{100, 3},
	}
	for _, p := range pairs {
		sum := PowerHeuristic(1, p[0], 1, p[1]) + PowerHeuristic(1, p[1], 1, p[0])
		if math.Abs(sum-1) > 1e-12 {
			t.Errorf("weights for (%f, %f) sum to %f", p[0], p[1], sum)
		}
	}
}

func TestPowerHeuristic_ZeroPDFs(t *testing.T) {
	if w := PowerHeuristic(1, 0, 1, 0); w != 0 {
		t.Errorf("both pdfs zero should weight 0, got %f", w)
	}
	if w := PowerHeuristic(1, 0, 1, 1); w != 0 {
		t.Errorf("zero f pdf should weight 0, got %f", w)
	}
	if w := PowerHeuristic(1, 1, 1, 0); math.Abs(w-1) > 1e-12 {
		t.Errorf("zero g pdf should weight 1, got %f", w)
	}
}

func TestPowerHeuristic_FavorsHigherPDF(t *testing.T) {
	// Squaring should push the weight toward the better strategy faster
	// than the balance heuristic does.
	power := PowerHeuristic(1, 10, 1, 1)
	balance := BalanceHeuristic(10, 1)
	if power <= balance {
		t.Errorf("power %f should exceed balance %f for dominant pdf", power, balance)
	}
}

func TestBalanceHeuristic_Proportional(t *testing.T) {
	w := BalanceHeuristic(3, 1)
	if math.Abs(w-0.75) > 1e-12 {
		t.Errorf("balance(3,1) = %f, want 0.75", w)
	}
}
