package core

import "math"

// Sampler provides random sample values for rendering algorithms.
// Can be swapped out for deterministic testing or different sampling patterns.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// OrthonormalBasis builds two unit vectors forming a right-handed frame
// with the given unit normal. The pivot avoids degenerate cross products
// when the normal is nearly axis-aligned.
func OrthonormalBasis(normal Vec3) (tangent, bitangent Vec3) {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	tangent = nt.Cross(normal).Normalize()
	bitangent = normal.Cross(tangent)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted random direction in the
// hemisphere around the given unit normal. The pdf of the returned direction
// is cos(theta)/pi.
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	around := 2.0 * math.Pi * sample.Y
	up := math.Sqrt(sample.X)
	r := math.Sqrt(math.Max(0, 1.0-sample.X))

	x := r * math.Cos(around)
	y := r * math.Sin(around)

	tangent, bitangent := OrthonormalBasis(normal)
	return tangent.Multiply(x).Add(bitangent.Multiply(y)).Add(normal.Multiply(up))
}

// SampleCone samples a direction uniformly within a cone around the given
// axis. cosTotalWidth is the cosine of the cone's half angle.
func SampleCone(axis Vec3, cosTotalWidth float64, sample Vec2) Vec3 {
	cosTheta := 1.0 - sample.X*(1.0-cosTotalWidth)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	phi := 2.0 * math.Pi * sample.Y

	u, v := OrthonormalBasis(axis)
	return u.Multiply(sinTheta * math.Cos(phi)).
		Add(v.Multiply(sinTheta * math.Sin(phi))).
		Add(axis.Multiply(cosTheta))
}

// ConeSolidAngle returns the solid angle subtended by a cone with the given
// cosine of its half angle.
func ConeSolidAngle(cosTotalWidth float64) float64 {
	return 2.0 * math.Pi * (1.0 - cosTotalWidth)
}
