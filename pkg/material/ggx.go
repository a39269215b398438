package material

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
)

// GGX microfacet math in the shading-local frame (normal = +Z). All half and
// direction vectors passed here are local unit vectors with Z > 0.

// ggxD evaluates the GGX normal distribution for half vector h
func ggxD(alpha float64, h core.Vec3) float64 {
	a2 := alpha * alpha
	d := h.Z*h.Z*(a2-1) + 1
	if d <= 0 {
		return 0
	}
	return a2 / (math.Pi * d * d)
}

// smithG1 is the Smith masking term for one direction with cosine noX
func smithG1(alpha, noX float64) float64 {
	if noX <= 0 {
		return 0
	}
	a2 := alpha * alpha
	return 2 * noX / (noX + math.Sqrt(a2+(1-a2)*noX*noX))
}

// smithG2 is the height-correlated Smith masking-shadowing term
func smithG2(alpha, noV, noL float64) float64 {
	if noV <= 0 || noL <= 0 {
		return 0
	}
	a2 := alpha * alpha
	lv := noL * math.Sqrt(a2+(1-a2)*noV*noV)
	ll := noV * math.Sqrt(a2+(1-a2)*noL*noL)
	denom := lv + ll
	if denom <= 0 {
		return 0
	}
	return 2 * noL * noV / denom
}

// schlickFresnel evaluates the Schlick approximation at the given cosine
func schlickFresnel(f0 core.Vec3, cosTheta float64) core.Vec3 {
	c := max(0, min(1, cosTheta))
	m := 1 - c
	m2 := m * m
	white := core.NewVec3(1, 1, 1)
	return f0.Add(white.Subtract(f0).Multiply(m2 * m2 * m))
}

// sampleGGXVNDF samples a half vector from the distribution of visible GGX
// normals for local view direction v (Heitz 2018). Works by warping the view
// into the hemisphere configuration of a unit-roughness surface, sampling a
// spherical cap there, and warping the result back.
func sampleGGXVNDF(v core.Vec3, alpha float64, sample core.Vec2) core.Vec3 {
	// Warp to the hemisphere configuration
	vh := core.NewVec3(alpha*v.X, alpha*v.Y, v.Z).Normalize()

	// Orthonormal basis around vh
	lenSq := vh.X*vh.X + vh.Y*vh.Y
	var t1 core.Vec3
	if lenSq > 0 {
		t1 = core.NewVec3(-vh.Y, vh.X, 0).Multiply(1 / math.Sqrt(lenSq))
	} else {
		t1 = core.NewVec3(1, 0, 0)
	}
	t2 := vh.Cross(t1)

	// Parameterize the projected area of the visible hemisphere
	r := math.Sqrt(sample.X)
	phi := 2 * math.Pi * sample.Y
	p1 := r * math.Cos(phi)
	p2 := r * math.Sin(phi)
	s := 0.5 * (1 + vh.Z)
	p2 = (1-s)*math.Sqrt(math.Max(0, 1-p1*p1)) + s*p2

	// Reproject onto the hemisphere and warp back to the ellipsoid
	p3 := math.Sqrt(math.Max(0, 1-p1*p1-p2*p2))
	nh := t1.Multiply(p1).Add(t2.Multiply(p2)).Add(vh.Multiply(p3))

	return core.NewVec3(alpha*nh.X, alpha*nh.Y, math.Max(1e-9, nh.Z)).Normalize()
}

// ggxPDF is the solid-angle density of directions produced by reflecting the
// local view about VNDF-sampled half vectors
func ggxPDF(alpha float64, v, l core.Vec3) float64 {
	if v.Z <= 0 || l.Z <= 0 {
		return 0
	}
	h := v.Add(l).Normalize()
	if h.Z <= 0 {
		return 0
	}
	return smithG1(alpha, v.Z) * ggxD(alpha, h) / (4 * v.Z)
}

// ggxBRDF evaluates the full microfacet specular term for local view and
// light directions
func ggxBRDF(f0 core.Vec3, alpha float64, v, l core.Vec3) core.Vec3 {
	if v.Z <= 0 || l.Z <= 0 {
		return core.Vec3{}
	}
	h := v.Add(l).Normalize()
	if h.Z <= 0 {
		return core.Vec3{}
	}
	f := schlickFresnel(f0, v.Dot(h))
	d := ggxD(alpha, h)
	g := smithG2(alpha, v.Z, l.Z)
	value := f.Multiply(d * g / (4 * v.Z * l.Z))
	if value.HasNaN() {
		return core.Vec3{}
	}
	return value
}
