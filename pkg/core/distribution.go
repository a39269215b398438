package core

import "math"

// Distribution1D is a piecewise-constant discrete distribution built from a
// slice of non-negative weights. CDF has len(weights)+1 entries, starts at 0,
// ends at 1 and is monotonically non-decreasing; PDF holds the discrete
// probability mass of each bucket.
type Distribution1D struct {
	CDF []float64
	PDF []float64
}

// NewDistribution1D builds a distribution from the given weights. Negative
// weights are treated as zero; if every weight is zero the distribution is
// uniform so sampling never fails.
func NewDistribution1D(weights []float64) *Distribution1D {
	n := len(weights)
	cdf := make([]float64, n+1)
	pdf := make([]float64, n)

	total := 0.0
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) {
			w = 0
		}
		total += w
		cdf[i+1] = total
	}

	if total <= 0 {
		for i := 0; i <= n; i++ {
			cdf[i] = float64(i) / float64(n)
		}
		for i := range pdf {
			pdf[i] = 1.0 / float64(n)
		}
		return &Distribution1D{CDF: cdf, PDF: pdf}
	}

	for i := 1; i <= n; i++ {
		cdf[i] /= total
	}
	cdf[n] = 1.0
	for i := range pdf {
		pdf[i] = cdf[i+1] - cdf[i]
	}
	return &Distribution1D{CDF: cdf, PDF: pdf}
}

// Sample inverts the CDF at u via binary search, returning the sampled bucket
// index and its probability mass
func (d *Distribution1D) Sample(u float64) (int, float64) {
	// Find the last CDF entry <= u; the bucket above it is the sample.
	lo, hi := 0, len(d.CDF)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if d.CDF[mid] <= u {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, d.PDF[lo]
}

// Prob returns the probability mass of bucket i
func (d *Distribution1D) Prob(i int) float64 {
	if i < 0 || i >= len(d.PDF) {
		return 0
	}
	return d.PDF[i]
}

// Count returns the number of buckets
func (d *Distribution1D) Count() int {
	return len(d.PDF)
}

// Distribution2D is a piecewise-constant distribution over a 2D grid: a
// marginal distribution selects a row, then that row's conditional
// distribution selects a column.
type Distribution2D struct {
	Conditional []*Distribution1D // one per row, over columns
	Marginal    *Distribution1D   // over rows
	Width       int
	Height      int
}

// NewDistribution2D builds a 2D distribution from row-major weights
func NewDistribution2D(weights []float64, width, height int) *Distribution2D {
	conditional := make([]*Distribution1D, height)
	rowTotals := make([]float64, height)

	for y := 0; y < height; y++ {
		row := weights[y*width : (y+1)*width]
		conditional[y] = NewDistribution1D(row)
		for _, w := range row {
			if w > 0 && !math.IsNaN(w) {
				rowTotals[y] += w
			}
		}
	}

	return &Distribution2D{
		Conditional: conditional,
		Marginal:    NewDistribution1D(rowTotals),
		Width:       width,
		Height:      height,
	}
}

// Sample draws a (column, row) cell from the distribution, returning the cell
// indices and the discrete probability masses of the row and of the column
// within that row
func (d *Distribution2D) Sample(sample Vec2) (x, y int, pdfX, pdfY float64) {
	y, pdfY = d.Marginal.Sample(sample.Y)
	x, pdfX = d.Conditional[y].Sample(sample.X)
	return x, y, pdfX, pdfY
}

// Prob returns the discrete probability masses for the given cell
func (d *Distribution2D) Prob(x, y int) (pdfX, pdfY float64) {
	if y < 0 || y >= d.Height || x < 0 || x >= d.Width {
		return 0, 0
	}
	return d.Conditional[y].Prob(x), d.Marginal.Prob(y)
}
