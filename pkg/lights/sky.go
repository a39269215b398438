package lights

import (
	"math"

	"github.com/mkral/go-sunsky-pathtracer/pkg/core"
	"github.com/mkral/go-sunsky-pathtracer/pkg/texture"
)

// sinThetaEpsilon avoids infinite densities at the poles of the
// equirectangular mapping
const sinThetaEpsilon = 1e-8

// SkyLight is an environment dome backed by an equirectangular texture,
// importance sampled by a 2D distribution over texel luminance
type SkyLight struct {
	tex      *texture.Texture
	dist     *core.Distribution2D
	strength float64
	rotation float64 // rotation of the environment around the vertical axis, radians
}

// NewSkyLight builds the importance distribution for an equirectangular
// environment texture. Each texel is weighted by luminance scaled by the
// solid angle its row subtends, so bright regions near the poles are not
// over-sampled.
func NewSkyLight(tex *texture.Texture, strength, rotation float64) *SkyLight {
	weights := make([]float64, tex.Width*tex.Height)
	for y := 0; y < tex.Height; y++ {
		sinTheta := math.Sin(math.Pi * (float64(y) + 0.5) / float64(tex.Height))
		rowWeight := sinTheta * 2 * math.Pi
		for x := 0; x < tex.Width; x++ {
			rgb := tex.At(x, y).RGB()
			weights[y*tex.Width+x] = rowWeight * rgb.Luminance()
		}
	}
	return &SkyLight{
		tex:      tex,
		dist:     core.NewDistribution2D(weights, tex.Width, tex.Height),
		strength: strength,
		rotation: rotation,
	}
}

// directionFromUV maps equirectangular coordinates to a world direction with
// +Y up and the texture seam on +Z when rotation is zero
func (s *SkyLight) directionFromUV(uv core.Vec2) core.Vec3 {
	theta := uv.Y * math.Pi
	phi := uv.X*2*math.Pi - s.rotation
	sinTheta := math.Sin(theta)
	return core.NewVec3(sinTheta*math.Sin(phi), math.Cos(theta), sinTheta*math.Cos(phi))
}

// uvFromDirection is the inverse of directionFromUV
func (s *SkyLight) uvFromDirection(direction core.Vec3) core.Vec2 {
	theta := math.Acos(math.Max(-1, math.Min(1, direction.Y)))
	phi := math.Atan2(direction.X, direction.Z) + s.rotation
	u := phi / (2 * math.Pi)
	u -= math.Floor(u)
	return core.NewVec2(u, theta/math.Pi)
}

// Sample draws a direction toward the dome proportional to texel luminance
func (s *SkyLight) Sample(point core.Vec3, sample core.Vec2) LightSample {
	x, y, pdfX, pdfY := s.dist.Sample(sample)
	uv := core.NewVec2(
		(float64(x)+0.5)/float64(s.dist.Width),
		(float64(y)+0.5)/float64(s.dist.Height),
	)
	direction := s.directionFromUV(uv)

	sinTheta := math.Sin(uv.Y * math.Pi)
	pdfUV := pdfX * float64(s.dist.Width) * pdfY * float64(s.dist.Height)
	pdf := pdfUV / (2*math.Pi*math.Pi*sinTheta + sinThetaEpsilon)

	return LightSample{
		Direction: direction,
		Emission:  s.tex.Sample(uv).RGB().Multiply(s.strength),
		PDF:       pdf,
		Distance:  math.Inf(1),
	}
}

func (s *SkyLight) PDF(point, direction core.Vec3) float64 {
	uv := s.uvFromDirection(direction)
	x := int(uv.X * float64(s.dist.Width))
	y := int(uv.Y * float64(s.dist.Height))
	if x >= s.dist.Width {
		x = s.dist.Width - 1
	}
	if y >= s.dist.Height {
		y = s.dist.Height - 1
	}
	pdfX, pdfY := s.dist.Prob(x, y)

	sinTheta := math.Sin(uv.Y * math.Pi)
	pdfUV := pdfX * float64(s.dist.Width) * pdfY * float64(s.dist.Height)
	return pdfUV / (2*math.Pi*math.Pi*sinTheta + sinThetaEpsilon)
}

// Emit returns the bilinearly filtered dome radiance for an escaping ray
func (s *SkyLight) Emit(direction core.Vec3) core.Vec3 {
	uv := s.uvFromDirection(direction)
	return s.tex.Sample(uv).RGB().Multiply(s.strength)
}
