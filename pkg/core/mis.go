package core

// PowerHeuristic computes the power heuristic (beta=2) weight for combining
// two sampling strategies. nf/ng are the number of samples drawn from each
// strategy, fPdf/gPdf their densities at the sampled direction. A zero
// denominator means neither strategy could produce the sample; the weight is
// zero so degenerate pdfs never propagate NaN into the estimator.
func PowerHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	denom := f*f + g*g
	if denom <= 0 {
		return 0
	}
	return f * f / denom
}

// BalanceHeuristic computes the balance heuristic weight for the one-sample
// MIS model, with the same zero-denominator guard as PowerHeuristic
func BalanceHeuristic(fPdf, gPdf float64) float64 {
	denom := fPdf + gPdf
	if denom <= 0 {
		return 0
	}
	return fPdf / denom
}
