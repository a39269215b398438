package core

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDistribution1D_CDF(t *testing.T) {
	d := NewDistribution1D([]float64{1, 2, 3, 4})

	wantCDF := []float64{0, 0.1, 0.3, 0.6, 1.0}
	if diff := cmp.Diff(wantCDF, d.CDF, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("CDF mismatch (-want +got):\n%s", diff)
	}

	wantPDF := []float64{0.1, 0.2, 0.3, 0.4}
	if diff := cmp.Diff(wantPDF, d.PDF, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("PDF mismatch (-want +got):\n%s", diff)
	}
}

func TestDistribution1D_SampleProportions(t *testing.T) {
	d := NewDistribution1D([]float64{1, 0, 3})

	tests := []struct {
		u    float64
		want int
	}{
		{0.0, 0},
		{0.1, 0},
		{0.24, 0},
		{0.25, 2},
		{0.5, 2},
		{0.999, 2},
	}
	for _, tt := range tests {
		idx, mass := d.Sample(tt.u)
		if idx != tt.want {
			t.Errorf("Sample(%f) = %d, want %d", tt.u, idx, tt.want)
		}
		if math.Abs(mass-d.Prob(idx)) > 1e-12 {
			t.Errorf("Sample(%f) mass %f != Prob %f", tt.u, mass, d.Prob(idx))
		}
	}
}

func TestDistribution1D_ZeroWeightsFallBackToUniform(t *testing.T) {
	d := NewDistribution1D([]float64{0, 0, 0, 0})

	for i := 0; i < 4; i++ {
		if math.Abs(d.Prob(i)-0.25) > 1e-12 {
			t.Errorf("Prob(%d) = %f, want uniform 0.25", i, d.Prob(i))
		}
	}
}

func TestDistribution1D_NegativeAndNaNWeightsIgnored(t *testing.T) {
	d := NewDistribution1D([]float64{1, -5, math.NaN(), 1})

	if math.Abs(d.Prob(0)-0.5) > 1e-12 || math.Abs(d.Prob(3)-0.5) > 1e-12 {
		t.Errorf("valid weights misweighted: %f, %f", d.Prob(0), d.Prob(3))
	}
	if d.Prob(1) != 0 || d.Prob(2) != 0 {
		t.Errorf("invalid weights got probability: %f, %f", d.Prob(1), d.Prob(2))
	}
}

func TestDistribution2D_ProbIsJointMass(t *testing.T) {
	// 2x2 grid with total weight 8
	weights := []float64{1, 1, 2, 4}
	d := NewDistribution2D(weights, 2, 2)

	total := 8.0
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			pdfX, pdfY := d.Prob(x, y)
			want := weights[y*2+x] / total
			if math.Abs(pdfX*pdfY-want) > 1e-12 {
				t.Errorf("joint mass at (%d,%d) = %f, want %f", x, y, pdfX*pdfY, want)
			}
		}
	}
}

func TestDistribution2D_SampleMatchesProb(t *testing.T) {
	weights := []float64{3, 1, 1, 1, 5, 1, 2, 2, 1}
	d := NewDistribution2D(weights, 3, 3)

	samples := []Vec2{
		{X: 0.05, Y: 0.05},
		{X: 0.5, Y: 0.5},
		{X: 0.95, Y: 0.95},
		{X: 0.3, Y: 0.8},
	}
	for _, u := range samples {
		x, y, pdfX, pdfY := d.Sample(u)
		wantX, wantY := d.Prob(x, y)
		if math.Abs(pdfX-wantX) > 1e-12 || math.Abs(pdfY-wantY) > 1e-12 {
			t.Errorf("Sample(%v) pdfs (%f,%f) != Prob (%f,%f)", u, pdfX, pdfY, wantX, wantY)
		}
	}
}

func TestDistribution2D_SampleFavorsHeavyCell(t *testing.T) {
	// One cell holds most of the mass
	weights := []float64{1, 1, 1, 97}
	d := NewDistribution2D(weights, 2, 2)

	s := NewPCGSampler(1, 1)
	hits := 0
	const n = 10000
	for i := 0; i < n; i++ {
		x, y, _, _ := d.Sample(s.Get2D())
		if x == 1 && y == 1 {
			hits++
		}
	}
	frac := float64(hits) / n
	if math.Abs(frac-0.97) > 0.02 {
		t.Errorf("heavy cell sampled %f of the time, want ~0.97", frac)
	}
}
