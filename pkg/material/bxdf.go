package material

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
)

// Lobe indices into the selection distribution
const (
	lobeSpecular = iota
	lobeDiffuse
	lobeTransparent
	lobeCount
)

// transmissionFloor keeps log(baseColor) finite for black base colors
const transmissionFloor = 1e-4

// deltaTolerance is the angular tolerance for matching a Dirac transmission
// direction during evaluation
const deltaTolerance = 1e-5

// BxDFSample is the result of sampling the combined BxDF
type BxDFSample struct {
	Direction core.Vec3 // world-space sampled direction
	Weight    core.Vec3 // throughput multiplier: f*cos/pdf with lobe selection folded in
	PDF       float64   // combined solid-angle pdf for MIS; 0 for delta lobes
	Delta     bool      // perfect-specular sample, skip MIS against lights
	Valid     bool
}

// lobeProbs returns the normalized selection probabilities for the three
// lobes. The specular weight is the surface opacity; the diffuse weight
// compensates for energy already claimed by the Fresnel term; transmission
// takes the remaining 1-opacity.
func (sp *ShadingPoint) lobeProbs(noV float64) [lobeCount]float64 {
	kD := sp.diffuseWeight(noV)

	var w [lobeCount]float64
	w[lobeSpecular] = sp.Opacity
	w[lobeDiffuse] = kD * sp.Opacity
	w[lobeTransparent] = 1 - sp.Opacity

	total := w[lobeSpecular] + w[lobeDiffuse] + w[lobeTransparent]
	if total <= 0 {
		return [lobeCount]float64{0, 0, 1}
	}
	for i := range w {
		w[i] /= total
	}
	return w
}

// diffuseWeight recomputes the Fresnel compensation factor used by both the
// selection probabilities and the diffuse lobe's BRDF scale
func (sp *ShadingPoint) diffuseWeight(noV float64) float64 {
	fresnel := schlickFresnel(sp.F0, noV).Luminance()
	return max(0, min(1, (1-fresnel)*(1-sp.Metallic)))
}

// selectLobe inverts the discrete CDF over lobe probabilities via binary
// search, returning the chosen lobe and its selection probability
func selectLobe(probs [lobeCount]float64, u float64) (int, float64) {
	var cdf [lobeCount + 1]float64
	for i := 0; i < lobeCount; i++ {
		cdf[i+1] = cdf[i] + probs[i]
	}
	lo, hi := 0, lobeCount
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if cdf[mid] <= u {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, probs[lo]
}

// TransmissionColor derives the tint of the transmission lobe from the base
// color: an absorptive slab whose optical thickness grows with opacity,
// transmission = exp(opacity * log(clamp(base))). An opacity of zero is a
// perfectly clear pass-through.
func (sp *ShadingPoint) TransmissionColor() core.Vec3 {
	return sp.BaseColor.Clamp(transmissionFloor, 1).Pow(sp.Opacity)
}

// Sample draws an outgoing direction from the combined BxDF for the given
// world-space view direction (surface toward viewer). The returned weight is
// the full throughput multiplier for the bounce; for delta lobes the cosine
// is treated as 1 and PDF is reported as 0.
func (sp *ShadingPoint) Sample(view core.Vec3, sampler core.Sampler) BxDFSample {
	v := sp.ToLocal(view)
	if v.Z <= 0 {
		return BxDFSample{}
	}

	probs := sp.lobeProbs(v.Z)
	lobe, pSelect := selectLobe(probs, sampler.Get1D())
	if pSelect <= 0 {
		return BxDFSample{}
	}

	switch lobe {
	case lobeTransparent:
		// Deterministic continuation straight through the surface
		dir := view.Negate()
		if dir.Dot(sp.GeomNormal) >= 0 {
			return BxDFSample{}
		}
		weight := sp.TransmissionColor().Multiply((1 - sp.Opacity) / pSelect)
		return finishDelta(dir, weight)

	case lobeSpecular:
		if sp.Alpha == 0 {
			// Perfect mirror: deterministic half vector at the pole
			l := core.NewVec3(-v.X, -v.Y, v.Z)
			dir := sp.ToWorld(l)
			if dir.Dot(sp.GeomNormal) <= 0 {
				return BxDFSample{}
			}
			weight := schlickFresnel(sp.F0, v.Z).Multiply(sp.Opacity / pSelect)
			return finishDelta(dir, weight)
		}
		h := sampleGGXVNDF(v, sp.Alpha, sampler.Get2D())
		l := v.Negate().Reflect(h)
		return sp.finishSample(view, v, l, probs)

	default: // lobeDiffuse
		sample := sampler.Get2D()
		around := 2 * math.Pi * sample.Y
		up := math.Sqrt(sample.X)
		r := math.Sqrt(math.Max(0, 1-sample.X))
		l := core.NewVec3(r*math.Cos(around), r*math.Sin(around), up)
		return sp.finishSample(view, v, l, probs)
	}
}

// finishSample evaluates the combined BSDF and pdf at a direction drawn from
// one of the continuous lobes, so sampled and evaluated densities always
// agree
func (sp *ShadingPoint) finishSample(view core.Vec3, v, l core.Vec3, probs [lobeCount]float64) BxDFSample {
	if l.Z <= 0 {
		return BxDFSample{}
	}
	dir := sp.ToWorld(l)
	if dir.Dot(sp.GeomNormal) <= 0 {
		return BxDFSample{}
	}

	f, pdf := sp.evalLocal(v, l, probs)
	if pdf <= 0 {
		return BxDFSample{}
	}

	weight := f.Multiply(l.Z / pdf)
	lum := weight.Luminance()
	if weight.HasNaN() || lum <= 0 || math.IsNaN(lum) {
		return BxDFSample{}
	}
	return BxDFSample{Direction: dir, Weight: weight, PDF: pdf, Valid: true}
}

func finishDelta(dir core.Vec3, weight core.Vec3) BxDFSample {
	lum := weight.Luminance()
	if weight.HasNaN() || lum <= 0 || math.IsNaN(lum) {
		return BxDFSample{}
	}
	return BxDFSample{Direction: dir, Weight: weight, Delta: true, Valid: true}
}

// Eval evaluates the combined BSDF value and pdf for an explicit pair of
// world-space directions, as needed for next-event estimation. Delta lobes
// contribute no pdf; the transmission lobe only contributes when dir is
// within a tight tolerance of exactly -view.
func (sp *ShadingPoint) Eval(view, dir core.Vec3) (core.Vec3, float64) {
	v := sp.ToLocal(view)
	if v.Z <= 0 {
		return core.Vec3{}, 0
	}

	if sp.Opacity < 1 && dir.Dot(view.Negate()) > 1-deltaTolerance {
		return sp.TransmissionColor().Multiply(1 - sp.Opacity), 0
	}

	l := sp.ToLocal(dir)
	if l.Z <= 0 || dir.Dot(sp.GeomNormal) <= 0 {
		return core.Vec3{}, 0
	}
	return sp.evalLocal(v, l, sp.lobeProbs(v.Z))
}

// evalLocal sums the continuous reflection lobes in the local frame
func (sp *ShadingPoint) evalLocal(v, l core.Vec3, probs [lobeCount]float64) (core.Vec3, float64) {
	var f core.Vec3
	pdf := 0.0

	if sp.Alpha > 0 {
		f = f.Add(ggxBRDF(sp.F0, sp.Alpha, v, l).Multiply(sp.Opacity))
		pdf += probs[lobeSpecular] * ggxPDF(sp.Alpha, v, l)
	}

	kD := sp.diffuseWeight(v.Z)
	f = f.Add(sp.DiffuseColor.Multiply(kD * sp.Opacity / math.Pi))
	pdf += probs[lobeDiffuse] * l.Z / math.Pi

	if f.HasNaN() || math.IsNaN(pdf) {
		return core.Vec3{}, 0
	}
	return f, pdf
}
